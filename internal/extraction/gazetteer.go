package extraction

import (
	"strings"
	"unicode"
)

// extraPlaceForms are location spellings beyond the supported cities. They
// let the recognizer surface a location the system has no forecast data
// for, so the dialog can answer with the unknown-place response instead of
// asking for a city again.
var extraPlaceForms = []string{
	"берлин", "берлине", "лондон", "лондоне", "париж", "париже",
	"казань", "казани", "сочи", "новосибирск", "новосибирске",
	"екатеринбург", "екатеринбурге", "минск", "минске", "киев", "киеве",
	"berlin", "london", "paris", "kazan", "sochi",
}

// GazetteerRecognizer is a vocabulary-backed LocationRecognizer. It treats
// capitalized tokens as proper-noun candidates and accepts those whose
// lowercase form is in the location vocabulary, checking two-word spans
// before single words. The vocabulary is built once; lookups are read-only
// and safe for concurrent use.
type GazetteerRecognizer struct {
	vocab map[string]struct{}
}

// NewGazetteerRecognizer builds the recognizer from the city alias table
// plus the extra place forms.
func NewGazetteerRecognizer() *GazetteerRecognizer {
	vocab := make(map[string]struct{}, len(cityAliases)+len(extraPlaceForms))
	for form := range cityAliases {
		vocab[form] = struct{}{}
	}
	for _, form := range extraPlaceForms {
		vocab[form] = struct{}{}
	}
	return &GazetteerRecognizer{vocab: vocab}
}

// Locations returns recognized spans in order of appearance, preserving
// their surface form.
func (g *GazetteerRecognizer) Locations(text string) []string {
	tokens := tokenize(text)

	var spans []string
	for i := 0; i < len(tokens); i++ {
		if !isCapitalized(tokens[i]) {
			continue
		}

		// Two-word span first: "Saint Petersburg" style names.
		if i+1 < len(tokens) && isCapitalized(tokens[i+1]) {
			pair := tokens[i] + " " + tokens[i+1]
			if g.contains(pair) {
				spans = append(spans, pair)
				i++
				continue
			}
		}

		if g.contains(tokens[i]) {
			spans = append(spans, tokens[i])
		}
	}
	return spans
}

func (g *GazetteerRecognizer) contains(span string) bool {
	_, ok := g.vocab[strings.ToLower(span)]
	return ok
}

// tokenize splits text into words, keeping intra-word hyphens so names
// like "Санкт-Петербург" stay one token.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}

func isCapitalized(token string) bool {
	for _, r := range token {
		return unicode.IsUpper(r)
	}
	return false
}
