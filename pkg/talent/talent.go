// Package talent handles talent codes as they are stored on a character.
//
// A talent code joins the talent and its addendum with "!", as in
// "weapon focus!longsword". A character's talents are kept in a List, a
// single "|"-delimited string that the calculation scripts read and extend.
package talent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fiktools/calctree/pkg/errors"
	"github.com/fiktools/calctree/pkg/textfmt"
)

// Separator joins a talent code and its addendum.
const Separator = "!"

// BuildCode returns "code!addendum". A non-empty override replaces code.
func BuildCode(code, override, addendum string) string {
	if override != "" {
		code = override
	}
	return code + Separator + addendum
}

// Components splits a talent code into code and addendum. A code without a
// separator has an empty addendum.
func Components(code string) (string, string) {
	name, addendum, _ := strings.Cut(code, Separator)
	return name, addendum
}

// Catalog maps talent codes to their reference names.
type Catalog map[string]string

// DisplayName builds the name shown on the sheet. Talents missing from the
// catalog are marked as unrecognised. The addendum, if any, is appended in
// parentheses.
func DisplayName(catalog Catalog, code, override, addendum string) string {
	if override != "" {
		code = override
	}
	name := catalog[code]
	if name != "" {
		name = textfmt.CodeToName(name)
	} else {
		name = textfmt.CodeToName(code) + " (unrecognised talent)"
	}
	if addendum != "" {
		name += " (" + textfmt.TitleWords(addendum) + ")"
	}
	return name
}

var (
	doublePlaceholder = regexp.MustCompile(`^(.*)\{\{(.+)\}\}(.*)$`)
	singlePlaceholder = regexp.MustCompile(`^(.*)\{(.+)\}(.*)$`)
)

// StackingName fills in the count placeholder of a stacking talent's name.
// A placeholder holds a ratio "n/d" or a plain factor "n" and is replaced by
// int(count*n/d). A "{{...}}" placeholder is expanded before a "{...}" one,
// so a name may carry one of each.
func StackingName(name string, count float64) (string, error) {
	var err error
	for _, re := range []*regexp.Regexp{doublePlaceholder, singlePlaceholder} {
		if name, err = expand(re, name, count); err != nil {
			return "", err
		}
	}
	return name, nil
}

func expand(re *regexp.Regexp, name string, count float64) (string, error) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return name, nil
	}
	num, den, hasDen := strings.Cut(m[2], "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "talent %q: bad placeholder %q", name, m[2])
	}
	d := 1.0
	if hasDen {
		if d, err = strconv.ParseFloat(den, 64); err != nil || d == 0 {
			return "", errors.New(errors.ErrCodeInvalidInput, "talent %q: bad placeholder %q", name, m[2])
		}
	}
	return fmt.Sprintf("%s%d%s", m[1], int(count*n/d), m[3]), nil
}
