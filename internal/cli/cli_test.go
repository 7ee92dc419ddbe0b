package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fiktools/calctree/pkg/errors"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/observability"
	"github.com/fiktools/calctree/pkg/report"
)

const combatScript = `# token input: base|level
# token output: combat|bab

# token input: combat|bab
# token input: abilities|strength
# token output: combat|melee attack
# token outptu: typo|line
`

// workspace creates a scripts directory inside a fresh working directory
// with an isolated cache.
func workspace(t *testing.T, scripts map[string]string) string {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Cleanup(observability.Reset)

	dir := filepath.Join(root, "scripts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	var out bytes.Buffer
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	root := workspace(t, map[string]string{"combat.py": combatScript})

	out, err := runCLI(t, "rank", "-d", "scripts", "-o", "reference", "--warnings-dir", "reference")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "items from") {
		t.Errorf("rank output:\n%s", out)
	}
	if !strings.Contains(out, "malformed declaration") {
		t.Errorf("rank output should show the typo warning:\n%s", out)
	}

	artifact := filepath.Join(root, "reference", pkgio.DefaultArtifactName)
	tree, err := pkgio.ImportTree(artifact)
	if err != nil {
		t.Fatal(err)
	}
	if got := tree[1]; len(got) != 1 || got[0] != "combat:melee attack" {
		t.Errorf("stage 1 = %v", got)
	}

	warnings, err := report.Load(filepath.Join(root, "reference", report.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings[sectionDeclarations]) != 1 || len(warnings[sectionLeaves]) != 2 {
		t.Errorf("warnings.csv = %v", warnings)
	}
}

func TestRankCommand_DryRun(t *testing.T) {
	root := workspace(t, map[string]string{"combat.py": combatScript})

	if _, err := runCLI(t, "rank", "-d", "scripts", "-o", "reference", "--dry-run"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "reference")); !os.IsNotExist(err) {
		t.Error("dry run should not write the reference directory")
	}
}

func TestRankCommand_Config(t *testing.T) {
	root := workspace(t, map[string]string{"combat.py": combatScript})
	toml := `calculation_scripts_directory = "scripts"
base_reference_directory = "ref"
artifact_name = "deps.json"

[cache]
backend = "none"

[render]
formats = ["json", "dot"]
`
	if err := os.WriteFile(filepath.Join(root, "calctree.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "rank"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"deps.json", "deps.dot"} {
		if _, err := os.Stat(filepath.Join(root, "ref", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestTreeCommand(t *testing.T) {
	workspace(t, map[string]string{"combat.py": combatScript})
	if _, err := runCLI(t, "rank", "-d", "scripts"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "tree")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Stage", "combat:bab", "base:level", "4 items in 3 stages"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "tree", "--stage=-1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "combat:bab") || !strings.Contains(out, "base:level") {
		t.Errorf("--stage -1 output:\n%s", out)
	}

	if _, err := runCLI(t, "tree", "--stage", "7"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing stage error = %v", err)
	}
}

func TestTreeCommand_Missing(t *testing.T) {
	workspace(t, nil)
	_, err := runCLI(t, "tree", "nothing.json")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("tree error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCheckCommand(t *testing.T) {
	workspace(t, map[string]string{"combat.py": combatScript})

	out, err := runCLI(t, "check", "-d", "scripts", "--leaves")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"No dependency cycles", "Ranked 4 items in 3 stages", "2 leaves", "abilities:strength"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "check", "-d", "scripts", "--strict"); !errors.Is(err, errors.ErrCodeInvalidDeclaration) {
		t.Errorf("strict check error = %v, want INVALID_DECLARATION", err)
	}
}

func TestCheckCommand_Stale(t *testing.T) {
	root := workspace(t, map[string]string{"combat.py": combatScript})
	if _, err := runCLI(t, "rank", "-d", "scripts"); err != nil {
		t.Fatal(err)
	}
	extra := "# token input: combat|melee attack\n# token output: sheet|attack line\n"
	if err := os.WriteFile(filepath.Join(root, "scripts", "sheet.py"), []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "check", "-d", "scripts")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "is out of date") {
		t.Errorf("check should flag the stale artifact:\n%s", out)
	}
}

func TestCheckCommand_Cycle(t *testing.T) {
	workspace(t, map[string]string{
		"a.py": "# token input: b|b\n# token output: a|a\n",
		"b.py": "# token input: a|a\n# token output: b|b\n",
	})

	out, err := runCLI(t, "check", "-d", "scripts")
	if !errors.Is(err, errors.ErrCodeCyclicDependency) {
		t.Fatalf("check error = %v, want CYCLIC_DEPENDENCY", err)
	}
	if !strings.Contains(out, "a:a → b:b → a:a") {
		t.Errorf("check output should show the cycle:\n%s", out)
	}
}

func TestRenderCommand_DOT(t *testing.T) {
	workspace(t, map[string]string{"combat.py": combatScript})
	if _, err := runCLI(t, "rank", "-d", "scripts"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "render", "-d", "scripts", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, `"combat:melee attack" -> "combat:bab";`) {
		t.Errorf("render output:\n%s", out)
	}
}

func TestRenderCommand_Graph(t *testing.T) {
	root := workspace(t, map[string]string{"combat.py": combatScript})
	if _, err := runCLI(t, "rank", "-d", "scripts", "-f", "graph"); err != nil {
		t.Fatal(err)
	}

	input := "calculated character elements.graph.json"
	if _, err := runCLI(t, "render", input, "-f", "dot"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "calculated character elements.dot")); err != nil {
		t.Errorf("dot file not written: %v", err)
	}
}

func TestRenderCommand_BadFormat(t *testing.T) {
	workspace(t, nil)
	if _, err := runCLI(t, "render", "-f", "json"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render error = %v, want INVALID_INPUT", err)
	}
	if _, err := runCLI(t, "render", "-f", "svg", "-o", "-"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render error = %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	root := workspace(t, map[string]string{"combat.py": combatScript})

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "cache", appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	if _, err := runCLI(t, "rank", "-d", "scripts"); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(want)
	if len(entries) == 0 {
		t.Fatal("rank should populate the file cache")
	}

	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared the file cache") {
		t.Errorf("cache clear output:\n%s", out)
	}
	entries, _ = os.ReadDir(want)
	if len(entries) != 0 {
		t.Errorf("cache still holds %d entries", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	workspace(t, nil)
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "calctree") {
		t.Error("bash completion should mention the command name")
	}
}

func TestParseFormats(t *testing.T) {
	fallback := []string{"json"}
	if got := parseFormats("", fallback); len(got) != 1 || got[0] != "json" {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("json, svg,,png", fallback); strings.Join(got, "|") != "json|svg|png" {
		t.Errorf("parseFormats = %v", got)
	}
}
