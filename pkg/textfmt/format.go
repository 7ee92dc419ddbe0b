package textfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var numberWords = []string{
	"zero", "one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "ten",
}

// SignedNumber formats n with an explicit sign: "+3", "+0", "-2".
func SignedNumber(n int) string {
	if n >= 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// NumberWord spells out 0 to 10 and formats anything else as digits.
func NumberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return strconv.Itoa(n)
}

// IndexedCode joins prefix and a zero-padded index, plus an optional suffix:
// IndexedCode("slot", "3", "", 2) is "slot 03". A non-numeric index is used
// as is.
func IndexedCode(prefix, index, suffix string, size int) string {
	if suffix != "" {
		suffix = " " + suffix
	}
	if n, err := strconv.Atoi(index); err == nil {
		return fmt.Sprintf("%s %0*d%s", prefix, size, n, suffix)
	}
	return fmt.Sprintf("%s %s%s", prefix, index, suffix)
}

// Truncate cuts s to max runes and marks the cut with "(…)".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) < max {
		return s
	}
	return string([]rune(s)[:max]) + "(…)"
}

// Ticks repeats symbol length times, inserting a space every every symbols
// when every is positive.
func Ticks(symbol string, length, every int) string {
	var b strings.Builder
	c := 0
	for range length {
		if every > 0 && c == every {
			b.WriteByte(' ')
			c = 0
		}
		b.WriteString(symbol)
		c++
	}
	return b.String()
}

var percentEncoder = strings.NewReplacer(
	"%", "%25",
	" ", "%20",
	"!", "%21",
	"#", "%23",
	"$", "%24",
	"&", "%26",
	"'", "%27",
	"(", "%28",
	")", "%29",
	"*", "%2A",
	"+", "%2B",
	",", "%2C",
	"/", "%2F",
	":", "%3A",
	";", "%3B",
	"=", "%3D",
	"?", "%3F",
	"@", "%40",
	"[", "%5B",
	"]", "%5D",
)

// PercentEncode escapes the reserved URL characters in s, slashes included.
func PercentEncode(s string) string {
	return percentEncoder.Replace(s)
}

// EmptyIfNil replaces nil entries with "".
func EmptyIfNil(values []*string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}
