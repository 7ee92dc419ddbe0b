package textfmt

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TitleWords upper-cases the first letter of every run of letters and
// lower-cases the rest. Any non-letter starts a new run, so "don't" becomes
// "Don'T" and "1st" becomes "1St"; Title and CodeToName repair those.
func TitleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		letter := unicode.IsLetter(r)
		switch {
		case letter && !prev:
			b.WriteRune(unicode.ToUpper(r))
		case letter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prev = letter
	}
	return b.String()
}

var titleFixes = strings.NewReplacer(
	"’S", "’s",
	"1St", "1st",
	"2Nd", "2nd",
	"3Rd", "3rd",
	"4Th", "4th",
	"5Th", "5th",
	"6Th", "6th",
	"7Th", "7th",
	"8Th", "8th",
	"9Th", "9th",
	"Ère", "ère",
	"Ème", "ème",
	"(S)", "(s)",
)

// Title title-cases s and restores ordinal suffixes and plural markers.
func Title(s string) string {
	return titleFixes.Replace(TitleWords(s))
}

// nameFixes are applied in order; strings.Replacer would pick matches by
// position instead, which changes the result for overlapping rules.
var nameFixes = [][2]string{
	{"'S", "'s"},
	{" A ", " a "},
	{" Ac ", " AC"},
	{"Ac ", "AC "},
	{" An ", " an "},
	{" At ", " at "},
	{"Dc", "DC"},
	{"Dmg", "dmg"},
	{"Hd", "HD"},
	{"Hp", "HP"},
	{" Ii ", " II "},
	{" Iii ", " III "},
	{" Is ", " is "},
	{" Iv ", " IV "},
	{" Of ", " of "},
	{" The ", " the "},
	{" Vs ", " vs. "},
	{" Vs.", " vs. "},
}

// CodeToName turns an item code back into a display name.
func CodeToName(code string) string {
	s := TitleWords(code)
	for _, fix := range nameFixes {
		s = strings.ReplaceAll(s, fix[0], fix[1])
	}
	return s
}

var codeFixes = [][2]string{
	{"'", ""},
	{" / ", " "},
	{"(", ""},
	{")", ""},
	{",", ""},
	{" - ", ""},
	{" -", ""},
	{"- ", ""},
	{".", ""},
	{"â", "a"},
	{"’", ""},
}

// NameToCode turns a display name into its item code.
func NameToCode(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, fix := range codeFixes {
		s = strings.ReplaceAll(s, fix[0], fix[1])
	}
	return s
}

func wordBoundary(s string, sep string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelToSnake converts "arcaneSpellFailure" to "arcane_spell_failure".
func CamelToSnake(name string) string {
	return strings.ToLower(wordBoundary(name, "_"))
}

// CamelToCapitalised converts "arcaneSpellFailure" to "Arcane Spell Failure".
func CamelToCapitalised(name string) string {
	return TitleWords(wordBoundary(name, " "))
}

// SnakeToCamel converts "arcane_spell_failure" to "ArcaneSpellFailure".
func SnakeToCamel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = TitleWords(w)
	}
	return strings.Join(words, "")
}

// SnakeToCapitalised converts "arcane_spell_failure" to "Arcane Spell Failure".
func SnakeToCapitalised(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = TitleWords(w)
	}
	return strings.Join(words, " ")
}

var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// StripAccents decomposes s and drops everything outside ASCII, so "Élan"
// becomes "Elan" and characters without an ASCII base vanish.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(nonASCII))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var wikiStrip = strings.NewReplacer(
	"'", "",
	"’", "",
	"“", "",
	"”", "",
	",", "",
	"(", " ",
	"?", "",
)

// WikiCode builds the page code used by wiki links: accents and punctuation
// removed, words capitalised and joined. With dashes set, hyphens are dropped
// too.
func WikiCode(name string, dashes bool) string {
	s := CamelToCapitalised(wikiStrip.Replace(StripAccents(name)))
	s = strings.NewReplacer(")", "", " ", "", "/", "").Replace(s)
	if dashes {
		s = strings.ReplaceAll(s, "-", "")
	}
	return s
}
