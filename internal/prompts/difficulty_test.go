package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTierCurrentValuesPassThrough(t *testing.T) {
	for _, tier := range []string{TierBeginner, TierNovice, TierIntermediate, TierAdvanced, TierExpert} {
		assert.Equal(t, tier, NormalizeTier(tier))
	}
}

func TestNormalizeTierLegacyMappingIsTotal(t *testing.T) {
	assert.Equal(t, TierBeginner, NormalizeTier("easy"))
	assert.Equal(t, TierIntermediate, NormalizeTier("medium"))
	assert.Equal(t, TierExpert, NormalizeTier("hard"))
}

func TestNormalizeTierUnknownDefaultsToMiddle(t *testing.T) {
	assert.Equal(t, TierIntermediate, NormalizeTier("ultraviolent"))
	assert.Equal(t, TierIntermediate, NormalizeTier(""))
}

func TestParamsForChancesAreProbabilities(t *testing.T) {
	for _, tier := range []string{TierBeginner, TierNovice, TierIntermediate, TierAdvanced, TierExpert} {
		params := ParamsFor(tier)
		assert.GreaterOrEqual(t, params.TwistChance, 0.0)
		assert.LessOrEqual(t, params.TwistChance, 1.0)
		assert.GreaterOrEqual(t, params.ColorRuleChance, 0.0)
		assert.LessOrEqual(t, params.ColorRuleChance, 1.0)
		assert.NotZero(t, params.TemplateTier)
	}
}

func TestHigherTiersEscalateChances(t *testing.T) {
	ordered := []string{TierBeginner, TierNovice, TierIntermediate, TierAdvanced, TierExpert}
	for i := 1; i < len(ordered); i++ {
		lower, higher := ParamsFor(ordered[i-1]), ParamsFor(ordered[i])
		assert.Greater(t, higher.TwistChance, lower.TwistChance)
		assert.Greater(t, higher.ColorRuleChance, lower.ColorRuleChance)
	}
}
