package textutil

import (
	"math"
	"regexp"
	"strings"
)

var nameSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// nameFillers carry no identity in a business name and are dropped.
var nameFillers = map[string]struct{}{
	"the": {},
	"and": {},
	"of":  {},
}

// venueWords describe the kind of place rather than which place, so they
// count for less than the distinctive part of a name.
var venueWords = map[string]float64{
	"restaurant": 0.5,
	"bar":        0.5,
	"grill":      0.5,
	"kitchen":    0.5,
	"cafe":       0.5,
	"café":       0.5,
	"eatery":     0.5,
	"bistro":     0.5,
}

// Fingerprint is a weighted term vector over the words of a business name.
type Fingerprint struct {
	weights map[string]float64
	norm    float64
}

// NewFingerprint builds a fingerprint for name, or nil when nothing usable remains.
func NewFingerprint(name string) *Fingerprint {
	terms := Tokenize(name)
	if len(terms) == 0 {
		return nil
	}
	weights := make(map[string]float64, len(terms))
	for _, term := range terms {
		w, ok := venueWords[term]
		if !ok {
			w = 1
		}
		weights[term] += w
	}
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return &Fingerprint{weights: weights, norm: math.Sqrt(sum)}
}

// Tokenize lowercases name and splits it into words, skipping fillers and
// single characters. Two-letter words like "di" or "la" are kept.
func Tokenize(name string) []string {
	raw := nameSplitPattern.Split(strings.ToLower(name), -1)
	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		if len([]rune(term)) < 2 {
			continue
		}
		if _, filler := nameFillers[term]; filler {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Terms reports how many distinct words the fingerprint holds.
func (f *Fingerprint) Terms() int {
	if f == nil {
		return 0
	}
	return len(f.weights)
}
