package report

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"testing"
)

func TestWarnings_AddReset(t *testing.T) {
	w := NewWarnings()
	w.Add("scan", "b")
	w.Addf("scan", "line %d", 3)
	w.Add("rank", "leaf x:y")

	if got := w.Sections(); !slices.Equal(got, []string{"rank", "scan"}) {
		t.Errorf("Sections() = %v", got)
	}
	if got := w.Get("scan"); !slices.Equal(got, []string{"b", "line 3"}) {
		t.Errorf("Get(scan) = %v", got)
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}

	w.Reset("scan")
	if len(w.Get("scan")) != 0 || w.Len() != 1 {
		t.Error("Reset did not empty the section")
	}
	if !slices.Contains(w.Sections(), "scan") {
		t.Error("Reset should keep the section")
	}
}

func TestWarnings_Concurrent(t *testing.T) {
	w := NewWarnings()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Add("scan", "x")
		}()
	}
	wg.Wait()
	if w.Len() != 20 {
		t.Errorf("Len() = %d, want 20", w.Len())
	}
}

func TestWarnings_SaveMerges(t *testing.T) {
	dir := t.TempDir()
	existing := "images,missing portrait\n" +
		"scan,old warning\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWarnings()
	w.Add("scan", "zeta")
	w.Add("scan", `alpha, with "quotes"`)
	w.Add("rank", "leaf")

	path, err := w.Save(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]string{
		"images": {"missing portrait"},
		"rank":   {"leaf"},
		"scan":   {`alpha, with "quotes"`, "zeta"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}

	raw, _ := os.ReadFile(path)
	wantRaw := "images,missing portrait\nrank,leaf\nscan,\"alpha, with \"\"quotes\"\"\"\nscan,zeta\n"
	if string(raw) != wantRaw {
		t.Errorf("file = %q, want %q", raw, wantRaw)
	}
}

func TestWarnings_SaveResetClears(t *testing.T) {
	dir := t.TempDir()
	w := NewWarnings()
	w.Add("scan", "x")
	if _, err := w.Save(dir); err != nil {
		t.Fatal(err)
	}

	w2 := NewWarnings()
	w2.Reset("scan")
	path, err := w2.Save(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := Load(path)
	if len(got["scan"]) != 0 {
		t.Errorf("scan section = %v, want empty", got["scan"])
	}
}

func TestLoad_Missing(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil || len(got) != 0 {
		t.Errorf("Load(missing) = %v, %v", got, err)
	}
}
