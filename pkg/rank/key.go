package rank

import (
	"regexp"
	"strings"
)

// Wildcard is the "any sequence" token that "*" in declarations becomes.
const Wildcard = ".+"

// KeyKind distinguishes literal item keys from wildcard patterns.
type KeyKind int

const (
	// Literal keys name exactly one item and only match themselves.
	Literal KeyKind = iota
	// Pattern keys contain at least one [Wildcard] and match every literal
	// key that fits around the wildcards.
	Pattern
)

// String returns "literal" or "pattern".
func (k KeyKind) String() string {
	if k == Pattern {
		return "pattern"
	}
	return "literal"
}

// Key is a parsed item key. The zero value is the empty literal.
type Key struct {
	raw  string
	kind KeyKind
	re   *regexp.Regexp
}

// ParseKey classifies s as a [Literal] or a [Pattern].
//
// Only the [Wildcard] token is special; every other character, including
// regexp metacharacters such as parentheses, is matched literally. Patterns
// are anchored, so "skills:.+" does not match "bonus skills:acrobatics".
func ParseKey(s string) Key {
	if !strings.Contains(s, Wildcard) {
		return Key{raw: s, kind: Literal}
	}
	parts := strings.Split(s, Wildcard)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := "^" + strings.Join(parts, Wildcard) + "$"
	return Key{raw: s, kind: Pattern, re: regexp.MustCompile(expr)}
}

// NormalizeWildcard replaces the declaration wildcard "*" with [Wildcard].
func NormalizeWildcard(s string) string {
	return strings.ReplaceAll(s, "*", Wildcard)
}

// String returns the key as written.
func (k Key) String() string { return k.raw }

// Kind reports whether k is a literal or a pattern.
func (k Key) Kind() KeyKind { return k.kind }

// IsPattern reports whether k contains a wildcard.
func (k Key) IsPattern() bool { return k.kind == Pattern }

// Matches reports whether the literal key s is covered by k.
// A literal only matches an identical string.
func (k Key) Matches(s string) bool {
	if k.kind == Literal {
		return k.raw == s
	}
	return k.re.MatchString(s)
}

// Section returns the part of the key before the first ':'.
func (k Key) Section() string {
	section, _, _ := strings.Cut(k.raw, ":")
	return section
}

// Code returns the part of the key after the first ':', or "" when the key
// has no section separator.
func (k Key) Code() string {
	_, code, _ := strings.Cut(k.raw, ":")
	return code
}

// Join builds a "section:code" key.
func Join(section, code string) string {
	return section + ":" + code
}
