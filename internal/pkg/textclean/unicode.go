package textclean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

// DecodeUnicodeEscapes replaces every \uXXXX sequence (exactly four hex
// digits) with the code point it names. Nothing else is unescaped. A high
// surrogate immediately followed by a low surrogate escape is joined into one
// rune; an unpaired surrogate becomes U+FFFD.
func DecodeUnicodeEscapes(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}

	matches := unicodeEscape.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for i := 0; i < len(matches); i++ {
		m := matches[i]
		b.WriteString(s[last:m[0]])
		last = m[1]

		r := hexRune(s[m[2]:m[3]])
		if utf16.IsSurrogate(r) {
			if i+1 < len(matches) && matches[i+1][0] == m[1] {
				next := matches[i+1]
				if paired := utf16.DecodeRune(r, hexRune(s[next[2]:next[3]])); paired != utf8.RuneError {
					b.WriteRune(paired)
					last = next[1]
					i++
					continue
				}
			}
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	b.WriteString(s[last:])
	return b.String()
}

func hexRune(h string) rune {
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return utf8.RuneError
	}
	return rune(v)
}
