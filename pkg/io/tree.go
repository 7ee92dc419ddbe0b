package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/fiktools/calctree/pkg/errors"
	"github.com/fiktools/calctree/pkg/rank"
)

const (
	// TreeField is the top-level field of the artifact.
	TreeField = "dependency tree"
	// DefaultArtifactName is the artifact file name the sheet generator
	// looks for.
	DefaultArtifactName = "calculated character elements.json"
)

// orderedTree marshals rank buckets in numeric rank order.
type orderedTree rank.Tree

func (t orderedTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rank.Tree(t).Levels() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keys := slices.Sorted(slices.Values(t[r]))
		if keys == nil {
			keys = []string{}
		}
		val, err := marshal(keys)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `"%d":`, r)
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type artifact struct {
	Tree orderedTree `json:"dependency tree"`
}

// marshal encodes v without escaping HTML characters.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteTree writes tree to w in the artifact format.
func WriteTree(w io.Writer, tree rank.Tree) error {
	if tree == nil {
		tree = rank.Tree{}
	}
	compact, err := marshal(artifact{Tree: orderedTree(tree)})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return fmt.Errorf("indent: %w", err)
	}
	_, err = w.Write(out.Bytes())
	return err
}

// ExportTree writes tree to path, creating parent directories as needed.
func ExportTree(path string, tree rank.Tree) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteTree(f, tree); err != nil {
		return err
	}
	return f.Close()
}

// ReadTree decodes an artifact from r.
func ReadTree(r io.Reader) (rank.Tree, error) {
	var data map[string]map[string][]string
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dependency tree")
	}
	buckets, ok := data[TreeField]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing %q field", TreeField)
	}

	tree := make(rank.Tree, len(buckets))
	for k, keys := range buckets {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "rank %q is not a number", k)
		}
		keys = slices.Clone(keys)
		slices.Sort(keys)
		tree[n] = keys
	}
	return tree, nil
}

// ImportTree reads the artifact at path.
func ImportTree(path string) (rank.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "artifact %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadTree(f)
}
