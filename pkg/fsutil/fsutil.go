// Package fsutil provides file system helpers for the calculation tooling:
// regexp-filtered directory listings, numbered output files, timestamp
// comparisons and JSON/text persistence.
package fsutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// compileName compiles a file-name filter. Filters are anchored at the start
// of the name, so "calc_" matches "calc_skills.py" but not "old_calc_x.py".
// An empty filter matches everything.
func compileName(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("compile file pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Files lists the regular files directly inside dir whose names match
// pattern, as full paths in sorted order. A missing directory yields an
// empty list rather than an error.
func Files(dir, pattern string) ([]string, error) {
	return list(dir, pattern, func(e fs.DirEntry) bool { return e.Type().IsRegular() })
}

// Directories lists the subdirectories of dir whose names match pattern, as
// full paths in sorted order.
func Directories(dir, pattern string) ([]string, error) {
	return list(dir, pattern, func(e fs.DirEntry) bool { return e.IsDir() })
}

func list(dir, pattern string, keep func(fs.DirEntry) bool) ([]string, error) {
	re, err := compileName(pattern)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result []string
	for _, e := range entries {
		if keep(e) && re.MatchString(e.Name()) {
			result = append(result, filepath.Join(dir, e.Name()))
		}
	}
	return result, nil
}

// FilesRecursive searches dir and all its subdirectories for files whose
// names match pattern. It returns their full paths in lexical walk order.
func FilesRecursive(dir, pattern string) ([]string, error) {
	re, err := compileName(pattern)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && re.MatchString(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// NumberedFileName returns the next free "<name>_<n>.<ext>" path in dir for
// file, one past the highest number already present. With create set, dir is
// created first.
func NumberedFileName(dir, file string, create bool) (string, error) {
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	re := regexp.MustCompile("^" + regexp.QuoteMeta(base) + `_(\d+)` + regexp.QuoteMeta(ext) + "$")

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	highest := 0
	for _, e := range entries {
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, highest+1, ext)), nil
}

// ModTime returns the modification time of path, or the zero time when it
// does not exist. With content set and path a directory, the newest
// modification time of the directory and the files in it is returned.
func ModTime(path string, content bool) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	ts := info.ModTime()
	if !content || !info.IsDir() {
		return ts
	}
	files, _ := Files(path, "")
	for _, f := range files {
		if t := ModTime(f, true); t.After(ts) {
			ts = t
		}
	}
	return ts
}

// IsOlder reports whether file was modified before any file in others, or
// before all of them when all is set.
func IsOlder(file string, others []string, all bool) bool {
	return compareAge(file, others, all, func(a, b time.Time) bool { return a.Before(b) })
}

// IsMoreRecent reports whether file was modified after any file in others,
// or after all of them when all is set.
func IsMoreRecent(file string, others []string, all bool) bool {
	return compareAge(file, others, all, func(a, b time.Time) bool { return a.After(b) })
}

func compareAge(file string, others []string, all bool, cmp func(a, b time.Time) bool) bool {
	if len(others) == 0 {
		return false
	}
	ts := ModTime(file, false)
	count := 0
	for _, o := range others {
		if cmp(ts, ModTime(o, false)) {
			if !all {
				return true
			}
			count++
		}
	}
	return all && count == len(others)
}

// Archive moves source into dir, suffixing its name with its modification
// time as a Unix timestamp. A missing source is not an error.
func Archive(source, dir string, create bool) (string, error) {
	info, err := os.Stat(source)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	ext := filepath.Ext(source)
	name := strings.TrimSuffix(filepath.Base(source), ext)
	target := filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, info.ModTime().Unix(), ext))
	if err := os.Rename(source, target); err != nil {
		return "", err
	}
	return target, nil
}

// SaveJSON writes v to path as JSON indented with four spaces. Map keys are
// sorted and non-ASCII text is written as is. With create set, the parent
// directory is created first.
func SaveJSON(path string, v any, create bool) error {
	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// LoadJSON decodes the JSON file at path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse JSON file %s: %w", path, err)
	}
	return nil
}

// SaveText writes data to path. With create set, the parent directory is
// created first.
func SaveText(path, data string, create bool) error {
	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

// LoadLines returns the lines of the text file at path without their line
// endings.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SortedUnique returns paths sorted with duplicates removed.
func SortedUnique(paths []string) []string {
	out := slices.Clone(paths)
	slices.Sort(out)
	return slices.Compact(out)
}
