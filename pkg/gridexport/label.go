package gridexport

import (
	"strings"
	"unicode"
)

// DeriveLabel turns an attribute name into a header label:
// "created_at", "createdAt" and "manager.firstName" become "Created At" and "Manager First Name".
func DeriveLabel(attribute string) string {
	if attribute == "" {
		return ""
	}

	runes := []rune(attribute)
	var sb strings.Builder
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			sb.WriteRune(' ')
			continue
		}
		if i > 0 && wordBoundary(runes, i) {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
	}

	words := strings.Fields(sb.String())
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// wordBoundary reports whether a new word starts at runes[i].
func wordBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsUpper(cur) && unicode.IsLower(prev):
		return true
	case unicode.IsUpper(cur) && (unicode.IsLetter(prev) || unicode.IsDigit(prev)) &&
		i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		// "HTTPServer" splits before the "S".
		return true
	case unicode.IsDigit(cur) && !unicode.IsDigit(prev):
		return true
	}
	return false
}
