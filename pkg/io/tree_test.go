package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fiktools/calctree/pkg/errors"
	"github.com/fiktools/calctree/pkg/rank"
)

func TestWriteTree(t *testing.T) {
	tree := rank.Tree{
		1:   {"combat:melee attack"},
		0:   {"combat:bab", "abilities:strength"},
		-1:  {"base:level"},
		-2:  {"épée:lame"},
		-10: {"a:<b>"},
	}
	var buf bytes.Buffer
	if err := WriteTree(&buf, tree); err != nil {
		t.Fatal(err)
	}

	want := `{
    "dependency tree": {
        "-10": [
            "a:<b>"
        ],
        "-2": [
            "épée:lame"
        ],
        "-1": [
            "base:level"
        ],
        "0": [
            "abilities:strength",
            "combat:bab"
        ],
        "1": [
            "combat:melee attack"
        ]
    }
}`
	if got := buf.String(); got != want {
		t.Errorf("WriteTree() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteTree_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTree(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "{\n    \"dependency tree\": {}\n}"; got != want {
		t.Errorf("WriteTree(nil) = %q, want %q", got, want)
	}
}

func TestExportImportTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference", DefaultArtifactName)
	tree := rank.Tree{1: {"b:b", "a:a"}, -3: {"c:c"}}

	if err := ExportTree(path, tree); err != nil {
		t.Fatal(err)
	}
	got, err := ImportTree(path)
	if err != nil {
		t.Fatal(err)
	}
	want := rank.Tree{1: {"a:a", "b:b"}, -3: {"c:c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ImportTree() = %v, want %v", got, want)
	}
}

func TestReadTree_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"missing field", `{"tree": {}}`},
		{"bad rank", `{"dependency tree": {"one": ["a:a"]}}`},
		{"bad bucket", `{"dependency tree": {"1": "a:a"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTree(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadTree() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestImportTree_Missing(t *testing.T) {
	_, err := ImportTree(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportTree() error = %v, want FILE_NOT_FOUND", err)
	}
}
