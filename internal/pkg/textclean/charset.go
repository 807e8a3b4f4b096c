// Package textclean holds the small text transforms shared by the toolkit's tools.
package textclean

import "strings"

// PreservedCharset is the set of characters kept by RemoveUnwanted: printable
// ASCII except '/', plus a fixed set of Latin-1 accented letters and
// typographic quotes.
const PreservedCharset = ` !¡"#$%&'()*+,-0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\]^_` + "`" +
	`abcdefghijklmnopqrstuvwxyz{|}~áàäçéèëíìïñóòöúùüÁÀÄÇÉÈËÍÌÏÑÓÒÖÚÙÜ«»‘’´“”·.‚`

var preserved = buildSet(PreservedCharset)

func buildSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}

// RemoveUnwanted deletes every rune of text that is not in PreservedCharset.
// Applying it twice yields the same result as applying it once.
func RemoveUnwanted(text string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := preserved[r]; ok {
			return r
		}
		return -1
	}, text)
}
