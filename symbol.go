package statement

import (
	"strings"
	"unicode"
)

// SymbolCleaner reduces the payload of a context row, such as
// "500116 IDBI - MITHIL DEEPAK KOTWAL", to a canonical symbol ("IDBI") and a
// secondary id ("500116").
type SymbolCleaner struct {
	Marker  string   // prefix stripped when still present
	Special []string // literals like "BSE BSE" that collapse to their first word
}

// DefaultCleaner returns the cleaner tuned for the statement format.
func DefaultCleaner() SymbolCleaner {
	return SymbolCleaner{Marker: DefaultMarker, Special: []string{"BSE BSE"}}
}

// Clean returns the canonical symbol and secondary id for raw. The Unknown
// sentinel is returned unchanged. A payload made only of digits cleans to
// Unknown with the digits as secondary id.
func (c SymbolCleaner) Clean(raw string) (symbol, secondaryID string) {
	s := strings.TrimSpace(CollapseLines(raw))
	if s == Unknown {
		return Unknown, ""
	}
	if c.Marker != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, c.Marker))
	}

	if id := leadingDigits.FindString(s); id != "" {
		secondaryID = id
		s = strings.TrimLeftFunc(s[len(id):], unicode.IsSpace)
	}

	if before, _, found := strings.Cut(s, " - "); found {
		s = strings.TrimSpace(before)
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return Unknown, secondaryID
	}
	for _, lit := range c.Special {
		if hasWordPrefix(words, strings.Fields(lit)) {
			return words[0], secondaryID
		}
	}
	if len(words) == 2 && words[0] == words[1] {
		return words[0], secondaryID
	}
	if len(words) > 1 && allAlpha(words) {
		return strings.Join(words, ""), secondaryID
	}
	return s, secondaryID
}

func hasWordPrefix(words, prefix []string) bool {
	if len(prefix) == 0 || len(words) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if words[i] != p {
			return false
		}
	}
	return true
}

func allAlpha(words []string) bool {
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}
