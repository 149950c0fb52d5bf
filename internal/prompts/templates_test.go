package prompts

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembleTextDeterministicWithSeed(t *testing.T) {
	a := AssembleText(rand.New(rand.NewSource(42)), "watercolor", "landscape", TierIntermediate, "warm", "Use no more than three colors")
	b := AssembleText(rand.New(rand.NewSource(42)), "watercolor", "landscape", TierIntermediate, "warm", "Use no more than three colors")
	assert.Equal(t, a, b)
}

func TestAssembleTextAlwaysEndsWithPeriod(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for medium := range MediumLabels {
		for subject := range SubjectLabels {
			text := AssembleText(rng, medium, subject, TierExpert, "", "")
			assert.True(t, strings.HasSuffix(text, "."), "prompt %q should end with a period", text)
		}
	}
}

func TestAssembleTextColorRuleUsesLowerCasedLabel(t *testing.T) {
	text := AssembleText(rand.New(rand.NewSource(7)), "ink", "animals", TierNovice, "warm", "")
	assert.Contains(t, text, "warm tones")
	assert.NotContains(t, text, "Warm tones")
}

func TestAssembleTextTwistAppendedVerbatim(t *testing.T) {
	twist := "Work with your non-dominant hand"
	text := AssembleText(rand.New(rand.NewSource(7)), "pencil", "portrait", TierAdvanced, "", twist)
	assert.Contains(t, text, twist)
}

func TestAssembleTextTipOnlyForLowestTier(t *testing.T) {
	beginner := AssembleText(rand.New(rand.NewSource(3)), "acrylic", "ocean", TierBeginner, "", "")
	assert.Contains(t, beginner, "Tip:")

	for _, tier := range []string{TierNovice, TierIntermediate, TierAdvanced, TierExpert} {
		text := AssembleText(rand.New(rand.NewSource(3)), "acrylic", "ocean", tier, "", "")
		assert.NotContains(t, text, "Tip:", "tier %s should not get a tip", tier)
	}
}

func TestAssembleTextLegacyTierGetsTipViaMigration(t *testing.T) {
	// Legacy "easy" maps to the beginner tier, and beginners get tips.
	text := AssembleText(rand.New(rand.NewSource(3)), "acrylic", "ocean", "easy", "", "")
	assert.Contains(t, text, "Tip:")
}

func TestAssembleTextToleratesUnknownAndEmptyIDs(t *testing.T) {
	// An ID with no label falls back to the raw ID; an empty medium in
	// a preference row must not crash assembly.
	text := AssembleText(rand.New(rand.NewSource(9)), "gouache", "landscape", TierNovice, "", "")
	assert.Contains(t, text, "gouache")

	assert.NotPanics(t, func() {
		AssembleText(rand.New(rand.NewSource(9)), "", "landscape", TierNovice, "", "")
	})
}

func TestFragmentCompatibilityRespectsRestrictions(t *testing.T) {
	// Medium-restricted fragments never fire for other mediums.
	for _, f := range fragments {
		if len(f.Mediums) == 0 || contains(f.Mediums, "oil") {
			continue
		}
		assert.False(t, f.compatible("oil", "landscape", f.Tiers[0]),
			"fragment %q restricted to %v fired for oil", f.Format, f.Mediums)
	}
}

func TestTwistsForMediumFiltersByCompatibility(t *testing.T) {
	for _, tw := range TwistsForMedium("watercolor") {
		if len(tw.Mediums) > 0 {
			assert.Contains(t, tw.Mediums, "watercolor")
		}
	}
	// Universal twists are always present.
	assert.NotEmpty(t, TwistsForMedium("oil"))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
