// Package score maps normalized text to a sentiment value in [-1, 1].
// The scorer is purely lexical: a generic financial lexicon plus a
// heavier trading-slang table, with phrase matches and negation
// handling. Identical input always produces an identical score.
package score

import (
	"math"
	"strings"
	"unicode"
)

// negatedFactor is the magnitude a negated term keeps, with its sign
// flipped. Negation wins over the boost table.
const negatedFactor = 0.5

// Scorer scores normalized text. Safe for concurrent use; the term
// tables are never mutated after construction.
type Scorer struct {
	base     map[string]float64
	boosts   map[string]float64
	phrases  []phrase
	negators map[string]struct{}
}

// NewScorer creates a scorer with the default lexicon
func NewScorer() *Scorer {
	return &Scorer{
		base:     baseLexicon,
		boosts:   boostLexicon,
		phrases:  phraseLexicon,
		negators: negators,
	}
}

// Score returns a sentiment value in [-1.0, 1.0]. Empty or
// whitespace-only text scores exactly 0.0.
func (s *Scorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0.0
	}

	sum := 0.0
	i := 0
	for i < len(tokens) {
		if w, n, ok := s.matchPhrase(tokens, i); ok {
			sum += s.applyNegation(tokens, i, w)
			i += n
			continue
		}

		tok := tokens[i]
		if w, ok := s.boosts[tok]; ok {
			sum += s.applyNegation(tokens, i, w)
		} else if w, ok := s.base[tok]; ok {
			sum += s.applyNegation(tokens, i, w)
		}
		i++
	}

	if sum == 0 {
		return 0.0
	}

	// tanh squashes the unbounded term sum into (-1, 1) while keeping
	// it monotonic: more positive terms always means a higher score.
	return clamp(math.Tanh(sum))
}

// matchPhrase tries every known phrase at position i, longest first
func (s *Scorer) matchPhrase(tokens []string, i int) (weight float64, length int, ok bool) {
	for _, p := range s.phrases {
		if i+len(p.words) > len(tokens) {
			continue
		}
		matched := true
		for j, w := range p.words {
			if tokens[i+j] != w {
				matched = false
				break
			}
		}
		if matched {
			return p.weight, len(p.words), true
		}
	}
	return 0, 0, false
}

// applyNegation flips a term's contribution when the preceding token
// is a negator: opposite sign at half the unnegated weight.
func (s *Scorer) applyNegation(tokens []string, i int, weight float64) float64 {
	if i > 0 {
		if _, neg := s.negators[tokens[i-1]]; neg {
			return -weight * negatedFactor
		}
	}
	return weight
}

// tokenize splits on whitespace and trims surrounding punctuation.
// Symbols (emoji, $) survive so slang like 🚀 stays matchable.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, unicode.IsPunct)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}
