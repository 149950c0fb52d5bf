package prompts

import (
	"fmt"
	"math/rand"
	"strings"
)

// A template fragment renders the core instruction for a medium+subject
// pairing. Empty Mediums/Subjects means the fragment is universal on
// that axis; Tiers lists the template tiers it may appear in.
type templateFragment struct {
	// Format receives the medium label and the subject label, in that
	// order.
	Format   string
	Mediums  []string
	Subjects []string
	Tiers    []int
}

var fragments = []templateFragment{
	// Universal, simple phrasing.
	{Format: "Create %[1]s artwork of %[2]s today", Tiers: []int{1, 2}},
	{Format: "Make %[1]s study of %[2]s", Tiers: []int{1, 2, 3}},
	{Format: "Capture %[2]s in %[1]s", Tiers: []int{2, 3}},
	// Universal, more elaborate.
	{Format: "Explore how %[1]s can transform %[2]s into something unexpected", Tiers: []int{2, 3}},
	{Format: "Push %[1]s to its limits while interpreting %[2]s", Tiers: []int{3}},
	// Medium-restricted.
	{Format: "Suggest %[2]s in %[1]s with loose washes, not outlines", Mediums: []string{"watercolor"}, Tiers: []int{2, 3}},
	{Format: "Build %[2]s from bold marks in %[1]s", Mediums: []string{"charcoal", "ink", "pastel"}, Tiers: []int{1, 2, 3}},
	{Format: "Layer cut shapes in %[1]s until %[2]s emerges", Mediums: []string{"collage"}, Tiers: []int{1, 2, 3}},
	// Subject-restricted.
	{Format: "Use %[1]s to catch the changing light across %[2]s", Subjects: []string{"landscape", "urban", "ocean"}, Tiers: []int{2, 3}},
	{Format: "Render %[2]s in %[1]s, focusing on character over likeness", Subjects: []string{"portrait", "figure", "animals"}, Tiers: []int{2, 3}},
	{Format: "Arrange a quiet composition of %[2]s in %[1]s", Subjects: []string{"still_life", "botanical", "food"}, Tiers: []int{1, 2}},
}

// compatible reports whether the fragment may be used for this
// medium+subject choice at this template tier.
func (f templateFragment) compatible(medium, subject string, tier int) bool {
	tierOK := false
	for _, t := range f.Tiers {
		if t == tier {
			tierOK = true
			break
		}
	}
	if !tierOK {
		return false
	}
	if len(f.Mediums) > 0 {
		found := false
		for _, m := range f.Mediums {
			if m == medium {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Subjects) > 0 {
		found := false
		for _, s := range f.Subjects {
			if s == subject {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AssembleText renders the final prompt text. Pure: all randomness comes
// from rng, so a fixed seed yields a fixed result. paletteID and twist
// are optional ("" = absent); the tip is appended only for the lowest
// skill tier. The result always ends with a period.
func AssembleText(rng *rand.Rand, medium, subject, tier string, paletteID, twist string) string {
	params := ParamsFor(tier)

	var candidates []templateFragment
	for _, f := range fragments {
		if f.compatible(medium, subject, params.TemplateTier) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		// Every medium+subject pair matches at least one universal
		// fragment per tier, but guard anyway.
		candidates = fragments[:1]
	}
	frag := candidates[rng.Intn(len(candidates))]

	mediumLabel := MediumLabels[medium]
	if mediumLabel == "" {
		mediumLabel = medium
	}
	subjectLabel := SubjectLabels[subject]
	if subjectLabel == "" {
		subjectLabel = subject
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(frag.Format, withArticle(mediumLabel), subjectLabel))

	if paletteID != "" {
		label := PaletteLabels[paletteID]
		if label == "" {
			label = paletteID
		}
		b.WriteString(", using a palette of ")
		b.WriteString(strings.ToLower(label))
	}
	if twist != "" {
		b.WriteString(". ")
		b.WriteString(twist)
	}
	if NormalizeTier(tier) == TierBeginner {
		b.WriteString(". ")
		b.WriteString(beginnerTips[rng.Intn(len(beginnerTips))])
	}

	text := b.String()
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}

// withArticle prefixes a medium label with a/an, lower-cased for
// mid-sentence use.
func withArticle(label string) string {
	if label == "" {
		return label
	}
	lower := strings.ToLower(label)
	switch lower[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + lower
	default:
		return "a " + lower
	}
}
