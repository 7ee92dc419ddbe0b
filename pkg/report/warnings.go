// Package report keeps a sectioned archive of warnings and persists it as
// warnings.csv next to the generated reference data.
//
// Each run replaces the sections it reports on and leaves the other
// sections of an existing file untouched, so separate tools can share one
// warnings file.
package report

import (
	"encoding/csv"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileName is the name of the warnings file inside its directory.
const FileName = "warnings.csv"

// Warnings collects messages by section. It is safe for concurrent use.
type Warnings struct {
	mu       sync.Mutex
	sections map[string][]string
}

// NewWarnings returns an empty archive.
func NewWarnings() *Warnings {
	return &Warnings{sections: make(map[string][]string)}
}

// Add records msg under section.
func (w *Warnings) Add(section, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sections[section] = append(w.sections[section], msg)
}

// Addf records a formatted message under section.
func (w *Warnings) Addf(section, format string, args ...any) {
	w.Add(section, fmt.Sprintf(format, args...))
}

// Reset empties section but keeps it, so saving clears it from the file.
func (w *Warnings) Reset(section string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sections[section] = []string{}
}

// Sections returns the section names in sorted order.
func (w *Warnings) Sections() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.sections))
}

// Get returns a copy of the messages in section.
func (w *Warnings) Get(section string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.sections[section])
}

// Len returns the total number of messages.
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, msgs := range w.sections {
		n += len(msgs)
	}
	return n
}

// Save merges the archive into dir/warnings.csv. Sections present in the
// archive replace their counterparts in the file. Rows are written sorted
// by section, then message. It returns the path written.
func (w *Warnings) Save(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	merged, err := Load(path)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	for section, msgs := range w.sections {
		merged[section] = slices.Clone(msgs)
	}
	w.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	for _, section := range slices.Sorted(maps.Keys(merged)) {
		msgs := slices.Clone(merged[section])
		slices.Sort(msgs)
		for _, msg := range msgs {
			if err := cw.Write([]string{section, msg}); err != nil {
				return "", err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}

// Load reads a warnings file into sections. A missing file is empty.
func Load(path string) (map[string][]string, error) {
	sections := make(map[string][]string)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return sections, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for _, row := range rows {
		sections[row[0]] = append(sections[row[0]], row[1])
	}
	return sections, nil
}
