package prompts

// TierParams bundles the generation probabilities for one difficulty
// tier. TemplateTier biases the assembler toward simpler or more
// elaborate phrasing.
type TierParams struct {
	Name            string
	TwistChance     float64
	ColorRuleChance float64
	TemplateTier    int
}

// Five tiers, lowest skill first. Only the lowest tier gets a guidance
// tip appended to its prompts.
const (
	TierBeginner     = "beginner"
	TierNovice       = "novice"
	TierIntermediate = "intermediate"
	TierAdvanced     = "advanced"
	TierExpert       = "expert"
)

var tierParams = map[string]TierParams{
	TierBeginner:     {Name: TierBeginner, TwistChance: 0.05, ColorRuleChance: 0.15, TemplateTier: 1},
	TierNovice:       {Name: TierNovice, TwistChance: 0.15, ColorRuleChance: 0.25, TemplateTier: 1},
	TierIntermediate: {Name: TierIntermediate, TwistChance: 0.30, ColorRuleChance: 0.40, TemplateTier: 2},
	TierAdvanced:     {Name: TierAdvanced, TwistChance: 0.50, ColorRuleChance: 0.55, TemplateTier: 2},
	TierExpert:       {Name: TierExpert, TwistChance: 0.70, ColorRuleChance: 0.70, TemplateTier: 3},
}

// legacyTierMap migrates the original three-tier difficulty values onto
// the current five-tier scale. The mapping is total: every legacy value
// has an explicit destination.
//
//	easy   -> beginner
//	medium -> intermediate
//	hard   -> expert
var legacyTierMap = map[string]string{
	"easy":   TierBeginner,
	"medium": TierIntermediate,
	"hard":   TierExpert,
}

// NormalizeTier resolves a stored difficulty value to a current tier
// name. Legacy three-tier values go through the migration table; a value
// that is neither current nor legacy defaults to the middle tier. That
// default is a deliberate decision, not a fallthrough.
func NormalizeTier(difficulty string) string {
	if _, ok := tierParams[difficulty]; ok {
		return difficulty
	}
	if mapped, ok := legacyTierMap[difficulty]; ok {
		return mapped
	}
	return TierIntermediate
}

// ParamsFor returns the generation parameters for a (possibly legacy)
// difficulty value.
func ParamsFor(difficulty string) TierParams {
	return tierParams[NormalizeTier(difficulty)]
}
