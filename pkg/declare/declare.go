package declare

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fiktools/calctree/pkg/errors"
	"github.com/fiktools/calctree/pkg/rank"
)

// Marker introduces every declaration line.
const Marker = "# token"

var declRE = regexp.MustCompile(`# token (in|out)put: (.+)\|(.+)$`)

// Kind tells inputs from outputs.
type Kind int

const (
	Input Kind = iota
	Output
)

func (k Kind) String() string {
	if k == Output {
		return "output"
	}
	return "input"
}

// Declaration is one parsed "# token" line.
type Declaration struct {
	Kind    Kind
	Section string
	Code    string
	Line    int
}

// Key returns the "section:code" item key.
func (d Declaration) Key() string { return rank.Join(d.Section, d.Code) }

// Location points at a line in a source file.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Warning is a non-fatal problem found while reading declarations.
type Warning struct {
	Location
	Reason string
	Text   string
}

func (w Warning) String() string {
	if w.Text == "" {
		return fmt.Sprintf("%s: %s", w.Location, w.Reason)
	}
	return fmt.Sprintf("%s: %s: %q", w.Location, w.Reason, w.Text)
}

// Block groups the outputs of a calculation with the inputs they read.
type Block struct {
	Inputs  []string
	Outputs []string
	// Lines of each output declaration, parallel to Outputs.
	Lines []int
}

// File holds the declarations found in one source.
type File struct {
	Path         string
	Declarations []Declaration
	Blocks       []Block
	Warnings     []Warning
}

// ParseLine parses a single source line. It matches case-insensitively
// anywhere in the line, so declarations may trail code. The returned
// section and code are lower-cased, trimmed and have "*" rewritten to the
// pattern wildcard.
func ParseLine(line string) (Declaration, bool) {
	m := declRE.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return Declaration{}, false
	}
	d := Declaration{
		Kind:    Input,
		Section: rank.NormalizeWildcard(strings.TrimSpace(m[2])),
		Code:    rank.NormalizeWildcard(strings.TrimSpace(m[3])),
	}
	if m[1] == "out" {
		d.Kind = Output
	}
	return d, true
}

// Parse reads declarations from r. Source names the input in warnings.
func Parse(r io.Reader, source string) (*File, error) {
	f := &File{Path: source}
	var cur Block

	flush := func() {
		if len(cur.Outputs) > 0 {
			f.Blocks = append(f.Blocks, cur)
		}
		cur = Block{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Text()
		if !strings.Contains(strings.ToLower(text), Marker) {
			continue
		}

		d, ok := ParseLine(text)
		if !ok {
			f.warn(n, "malformed declaration", strings.TrimSpace(text))
			continue
		}
		if err := errors.ValidateKey(d.Key()); err != nil {
			f.warn(n, errors.UserMessage(err), strings.TrimSpace(text))
			continue
		}
		d.Line = n
		f.Declarations = append(f.Declarations, d)

		switch d.Kind {
		case Input:
			if len(cur.Outputs) > 0 {
				flush()
			}
			cur.Inputs = append(cur.Inputs, d.Key())
		case Output:
			cur.Outputs = append(cur.Outputs, d.Key())
			cur.Lines = append(cur.Lines, n)
		}
	}
	switch err := scanner.Err(); {
	case err == bufio.ErrTooLong:
		// The scanner cannot resume past the long line; keep what was read.
		f.warn(n+1, "line too long, rest of file skipped", "")
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	if len(cur.Inputs) > 0 && len(cur.Outputs) == 0 {
		f.warn(n, "inputs declared without any output", "")
	}
	flush()
	return f, nil
}

// ParseFile opens and parses the file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "declaration source %s", path)
		}
		return nil, err
	}
	defer fh.Close()
	return Parse(fh, path)
}

func (f *File) warn(line int, reason, text string) {
	f.Warnings = append(f.Warnings, Warning{
		Location: Location{File: f.Path, Line: line},
		Reason:   reason,
		Text:     text,
	})
}
