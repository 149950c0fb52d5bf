package prompts

// The static generation catalog: mediums, subjects, palettes, twists and
// template fragments. IDs are stable and stored in Postgres; labels are
// what the assembler renders.

var MediumLabels = map[string]string{
	"watercolor": "Watercolor",
	"acrylic":    "Acrylic",
	"oil":        "Oil paint",
	"pencil":     "Pencil",
	"charcoal":   "Charcoal",
	"ink":        "Ink",
	"digital":    "Digital",
	"collage":    "Collage",
	"pastel":     "Pastel",
}

var SubjectLabels = map[string]string{
	"landscape":    "a landscape",
	"portrait":     "a portrait",
	"still_life":   "a still life",
	"animals":      "an animal",
	"architecture": "a building or structure",
	"botanical":    "a plant or flower",
	"fantasy":      "a fantasy scene",
	"abstract":     "an abstract composition",
	"urban":        "an urban scene",
	"ocean":        "the sea",
	"food":         "a dish or ingredient",
	"figure":       "the human figure",
}

// Palette display labels; the assembler lower-cases them when building
// the color-rule clause.
var PaletteLabels = map[string]string{
	"warm":          "Warm tones",
	"cool":          "Cool tones",
	"earth":         "Earth tones",
	"monochrome":    "Monochrome",
	"complementary": "Complementary colors",
	"pastels":       "Soft pastels",
	"neon":          "Neon brights",
	"muted":         "Muted shades",
}

// Twist is a constraint clause appended verbatim. A twist may restrict
// itself to a subset of mediums; an empty Mediums list means universal.
type Twist struct {
	Text    string
	Mediums []string
}

var twists = []Twist{
	{Text: "Work with your non-dominant hand"},
	{Text: "Finish it in under 20 minutes"},
	{Text: "Use no more than three colors"},
	{Text: "Leave at least half the surface untouched"},
	{Text: "Work from memory only, no reference"},
	{Text: "Make it tell a story in a single frame"},
	{Text: "Use only line, no shading", Mediums: []string{"pencil", "ink", "digital"}},
	{Text: "Build the whole image from torn shapes", Mediums: []string{"collage"}},
	{Text: "Let the washes bleed into each other", Mediums: []string{"watercolor"}},
	{Text: "Work dark to light", Mediums: []string{"charcoal", "oil", "pastel"}},
	{Text: "Use a single continuous line", Mediums: []string{"pencil", "ink", "digital"}},
	{Text: "Paint with a palette knife only", Mediums: []string{"acrylic", "oil"}},
}

// Guidance tips for the lowest-skill tier.
var beginnerTips = []string{
	"Tip: block in the biggest shapes first and save details for last",
	"Tip: squint at your subject to simplify values",
	"Tip: done is better than perfect, keep your first pass loose",
	"Tip: step back from your work every few minutes",
	"Tip: sketch three tiny thumbnails before committing",
}

// TwistsForMedium filters the twist list to those compatible with the
// chosen medium.
func TwistsForMedium(medium string) []Twist {
	var out []Twist
	for _, t := range twists {
		if len(t.Mediums) == 0 {
			out = append(out, t)
			continue
		}
		for _, m := range t.Mediums {
			if m == medium {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
