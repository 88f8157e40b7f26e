package styleguide

import "strings"

// Input is the brand guide document supplied by the wizard (or the planner):
// a named palette plus a font-pairing label.
type Input struct {
	Palette      Palette `json:"palette"`
	FontPair     string  `json:"fontPair"`
	BusinessName string  `json:"businessName,omitempty"`
}

type Palette struct {
	Name        string   `json:"name"`
	Colors      []string `json:"colors"`
	Description string   `json:"description"`
}

// Normalized assigns the palette to five fixed color roles and the font pair
// to two font roles. Every generated file is styled from this record.
type Normalized struct {
	Colors     Colors     `json:"colors"`
	Typography Typography `json:"typography"`
}

type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

type Typography struct {
	Headings string `json:"headings"`
	Body     string `json:"body"`
}

// Font stacks selected by substring match on the font-pair label. The match
// is case-sensitive: the labels come from a fixed set the wizard offers, not
// free text.
const (
	headingsOswald   = "Oswald, sans-serif"
	headingsFallback = "Playfair Display, serif"
	bodyOpenSans     = "Open Sans, sans-serif"
	bodyFallback     = "Montserrat, sans-serif"
)

// fallbackColors pads palettes that arrive with fewer than five entries.
var fallbackColors = [...]string{"#4A6C6F", "#846C5B", "#9B8357", "#C3B299", "#F1EDEA"}

// PadColors appends fallback entries, indexed by current length, until the
// palette holds at least five colors. A palette that is already full is
// returned as a copy, unchanged. Colors are never truncated.
func PadColors(colors []string) []string {
	out := make([]string, len(colors), max(len(colors), 5))
	copy(out, colors)
	for len(out) < 5 {
		out = append(out, fallbackColors[len(out)%len(fallbackColors)])
	}
	return out
}

// Normalize maps a brand guide input onto the five named color slots and two
// font stacks. It is total: it never fails, whatever the input looks like.
func Normalize(in Input) Normalized {
	colors := PadColors(in.Palette.Colors)

	headings := headingsFallback
	if strings.Contains(in.FontPair, "Oswald") {
		headings = headingsOswald
	}
	body := bodyFallback
	if strings.Contains(in.FontPair, "Open Sans") {
		body = bodyOpenSans
	}

	return Normalized{
		Colors: Colors{
			Primary:    colors[0],
			Secondary:  colors[1],
			Accent:     colors[2],
			Text:       colors[3],
			Background: colors[4],
		},
		Typography: Typography{Headings: headings, Body: body},
	}
}

// Slots returns the colors in role order: primary, secondary, accent, text,
// background. Feeding these back through Normalize yields the same record.
func (c Colors) Slots() []string {
	return []string{c.Primary, c.Secondary, c.Accent, c.Text, c.Background}
}
