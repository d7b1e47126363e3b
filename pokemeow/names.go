package pokemeow

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizePokemonKey maps a display name to the key alerts and market
// values are stored under: "Mr. Mime" becomes "mr-mime", "Flabébé" becomes
// "flabebe". Custom emoji, markdown and the shiny/golden prefixes are dropped.
func NormalizePokemonKey(name string) string {
	name = customEmoji.ReplaceAllString(name, "")
	name = strings.NewReplacer("*", "", "_", "", "`", "", "~", "").Replace(name)

	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err == nil {
		name = stripped
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range []string{"shiny ", "golden "} {
		name = strings.TrimPrefix(name, prefix)
	}

	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r == '♀':
			b.WriteString("-f")
			dash = false
		case r == '♂':
			b.WriteString("-m")
			dash = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '-' || r == '.':
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
