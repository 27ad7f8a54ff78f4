package analytics

import (
	"sort"
	"strings"
	"unicode"
)

type Analytics struct{}

// commonWords is a map of frequently occurring French function words and
// legal boilerplate that should be ignored in frequency analysis.
// This list can be extended as needed.
var commonWords = map[string]struct{}{
	"a": {}, "à": {}, "afin": {}, "ainsi": {}, "après": {}, "au": {},
	"aucun": {}, "aucune": {}, "auprès": {}, "auquel": {}, "aussi": {},
	"autre": {}, "autres": {}, "aux": {}, "auxquelles": {}, "auxquels": {},
	"avant": {}, "avec": {},

	"c'est": {}, "ce": {}, "ceci": {}, "cela": {}, "celle": {},
	"celles": {}, "celui": {}, "ces": {}, "cet": {}, "cette": {},
	"ceux": {}, "chaque": {}, "ci": {}, "comme": {}, "compris": {},
	"concernant": {}, "conformément": {},

	"d'un": {}, "d'une": {}, "dans": {}, "de": {}, "depuis": {},
	"des": {}, "dessous": {}, "dessus": {}, "deux": {}, "doit": {},
	"doivent": {}, "donc": {}, "dont": {}, "du": {}, "dudit": {},
	"duquel": {},

	"effet": {}, "elle": {}, "elles": {}, "en": {}, "entre": {},
	"est": {}, "et": {}, "être": {}, "eux": {},

	"fait": {}, "faite": {},

	"il": {}, "ils": {},

	"jusqu'à": {},

	"l'article": {}, "la": {}, "laquelle": {}, "le": {}, "ledit": {},
	"lequel": {}, "les": {}, "lesdits": {}, "lesquelles": {},
	"lesquels": {}, "leur": {}, "leurs": {}, "loi": {}, "lors": {},
	"lorsque": {}, "lui": {},

	"mais": {}, "même": {}, "mêmes": {}, "mois": {},

	"ne": {}, "ni": {}, "non": {}, "nos": {}, "notamment": {},
	"notre": {}, "nous": {},

	"on": {}, "ont": {}, "ou": {}, "où": {}, "outre": {},

	"par": {}, "parmi": {}, "pas": {}, "pendant": {}, "peut": {},
	"peuvent": {}, "plus": {}, "pour": {}, "près": {}, "présent": {},
	"présente": {}, "prévu": {}, "prévue": {}, "prévues": {},
	"prévus": {},

	"qu'il": {}, "qu'elle": {}, "quand": {}, "que": {}, "quel": {},
	"quelle": {}, "quelles": {}, "quels": {}, "qui": {},

	"sa": {}, "sans": {}, "se": {}, "selon": {}, "sera": {},
	"seront": {}, "ses": {}, "si": {}, "soit": {}, "son": {},
	"sont": {}, "sous": {}, "sur": {}, "sus": {}, "susvisé": {},
	"susvisée": {},

	"telle": {}, "telles": {}, "tous": {}, "tout": {}, "toute": {},
	"toutes": {},

	"un": {}, "une": {},

	"vers": {}, "visé": {}, "visée": {}, "vu": {},

	"y": {},

	// Gazette layout noise
	"art": {}, "article": {}, "articles": {}, "alinéa": {},
	"journal": {}, "officiel": {}, "joradp": {}, "n°": {}, "page": {},
	"correspondant": {},
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := commonWords[strings.ToLower(word)]
	return exists
}

func (a *Analytics) WordFrequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text)) // strings.Fields handles multiple spaces and newlines
	frequencies := make(map[string]int)

	for _, word := range words {
		// Trim punctuation but keep accented letters intact
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})

		// Skip if it's a common word or empty after cleaning
		if _, exists := commonWords[word]; exists || word == "" {
			continue
		}

		frequencies[word]++
	}

	return frequencies
}

type wordCount struct {
	Word  string
	Count int
}

func (a *Analytics) TopNWords(text string, n int) []string {
	frequencies := a.WordFrequency(text)

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	limit := n
	if len(counts) < n {
		limit = len(counts)
	}

	topN := make([]string, limit)
	for i := 0; i < limit; i++ {
		topN[i] = counts[i].Word
	}

	return topN
}
