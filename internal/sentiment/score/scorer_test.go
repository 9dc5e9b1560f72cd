package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_EmptyText(t *testing.T) {
	s := NewScorer()

	assert.Zero(t, s.Score(""))
	assert.Zero(t, s.Score("    "))
	assert.Zero(t, s.Score("... !!! ..."))
}

func TestScore_NeutralText(t *testing.T) {
	s := NewScorer()

	// No lexicon terms at all scores exactly zero.
	assert.Zero(t, s.Score("the company held its annual meeting on tuesday"))
}

func TestScore_Bounds(t *testing.T) {
	s := NewScorer()

	texts := []string{
		"bullish moon rocket tendies breakout ath pump stonks printing 🚀 💎 📈",
		"bearish crash dump tank rekt bagholder drilling 📉 🐻 fraud bankruptcy",
		"beat growth profit gain surge soar rally rebound momentum win",
	}
	for _, text := range texts {
		got := s.Score(text)
		assert.GreaterOrEqual(t, got, -1.0, text)
		assert.LessOrEqual(t, got, 1.0, text)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer()

	text := "bullish af, to the moon 🚀 but some risk remains"
	first := s.Score(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Score(text))
	}
}

func TestScore_Direction(t *testing.T) {
	s := NewScorer()

	assert.Positive(t, s.Score("strong earnings beat, analysts upgrade"))
	assert.Negative(t, s.Score("weak guidance, downgrade and layoffs"))
}

func TestScore_BoostOutweighsGeneric(t *testing.T) {
	s := NewScorer()

	slang := s.Score("bullish af, to the moon 🚀")
	generic := s.Score("bullish")

	assert.Positive(t, generic)
	assert.Greater(t, slang, generic, "stacked slang terms score higher than a lone term")
}

func TestScore_Phrases(t *testing.T) {
	s := NewScorer()

	// "short squeeze" is strongly positive even though "short" alone
	// is negative.
	assert.Positive(t, s.Score("massive short squeeze incoming"))
	assert.Negative(t, s.Score("short it"))

	assert.Negative(t, s.Score("classic dead cat bounce"))
	assert.Negative(t, s.Score("total rug pull"))
}

func TestScore_Negation(t *testing.T) {
	s := NewScorer()

	plain := s.Score("bullish")
	negated := s.Score("not bullish")

	assert.Positive(t, plain)
	assert.Negative(t, negated, "negation flips the sign")
	assert.Less(t, -negated, plain, "negated magnitude is reduced")

	// Negated negative flips positive.
	assert.Positive(t, s.Score("never bearish"))
}

func TestScore_CaseHandledByNormalization(t *testing.T) {
	s := NewScorer()

	// The scorer expects pre-lowercased text; uppercase slang is the
	// normalizer's job.
	assert.Positive(t, s.Score("bullish"))
	assert.Zero(t, s.Score("BULLISH"))
}
