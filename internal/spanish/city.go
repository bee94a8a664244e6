// README: City-name normalizer; strips Spanish travel phrases from free text.
package spanish

import (
	"regexp"
	"strings"
	"unicode"
)

// Transcripts arrive with the travel verb still attached ("salgo desde
// Madrid") and sometimes with the beginning of the next clause glued on
// ("Madrid y voy a Sevilla"). Order matters in travelPhrases: longest
// phrases first, otherwise "salgo" would strip before "salgo desde" gets
// a chance and leave "desde" behind.
var (
	trailingClauseRx = regexp.MustCompile(`(?i)\s+y\s+(voy|me dirijo|viajo|salgo)\b.*$`)
	trailingYRx      = regexp.MustCompile(`(?i)\s+y$`)

	travelPhrasesRx = regexp.MustCompile(`(?i)^(estoy saliendo desde|estoy saliendo de|estoy viajando a|quiero ir hacia|quiero ir a|quiero ir de|me dirijo hacia|me dirijo a|me dirijo de|salgo desde|salgo de|vengo desde|vengo de|voy hacia|voy a|voy de|parto desde|parto de|llegando a|paso por)\s+`)

	leadingPrepositionRx = regexp.MustCompile(`(?i)^(desde|hacia|hasta|para|en|de|a)\s+`)

	punctuationRx = regexp.MustCompile(`[¿?.,!]`)
)

// NormalizeCity recovers a bare place name from conversational Spanish.
// It is idempotent: normalizing an already-normalized name is a no-op.
// Returns "" when nothing usable remains.
func NormalizeCity(s string) string {
	r := strings.TrimSpace(s)
	if r == "" {
		return ""
	}

	// Punctuation goes first: a leading "¿" would otherwise hide the
	// phrase prefixes from the anchored patterns below.
	r = punctuationRx.ReplaceAllString(r, "")
	r = strings.TrimSpace(r)
	r = trailingClauseRx.ReplaceAllString(r, "")
	r = trailingYRx.ReplaceAllString(r, "")
	r = travelPhrasesRx.ReplaceAllString(r, "")
	r = leadingPrepositionRx.ReplaceAllString(r, "")
	r = strings.TrimSpace(r)

	if r == "" {
		return ""
	}
	return capitalize(r)
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
