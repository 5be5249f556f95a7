package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	// Block backgrounds; Alt shades separate adjacent blocks.
	BlockBg       lipgloss.Color
	BlockBgAlt    lipgloss.Color
	AllDayBg      lipgloss.Color
	ReadonlyBg    lipgloss.Color
	ReadonlyBgAlt lipgloss.Color

	TextOnAccent   lipgloss.Color
	TextOnWarning  lipgloss.Color
	TextOnCurrent  lipgloss.Color
	TextOnBlock    lipgloss.Color
	TextOnAllDay   lipgloss.Color
	TextOnReadonly lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	isLight := isLightTheme(t.Bg)
	blockHex := taskBaseBg(t.Block, t.Bg, isLight)
	allDayHex := taskBaseBg(t.AllDay, t.Bg, isLight)
	readonlyHex := taskMutedBg(t.Readonly, t.Bg, isLight)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		BlockBg:       lipgloss.Color(blockHex),
		BlockBgAlt:    lipgloss.Color(alternateShade(blockHex, isLight)),
		AllDayBg:      lipgloss.Color(allDayHex),
		ReadonlyBg:    lipgloss.Color(readonlyHex),
		ReadonlyBgAlt: lipgloss.Color(alternateShade(readonlyHex, isLight)),

		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning:  lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnCurrent:  lipgloss.Color(chooseTextColor(t.Current, t.Bg, t.Fg)),
		TextOnBlock:    lipgloss.Color(chooseTextColor(blockHex, t.Bg, t.Fg)),
		TextOnAllDay:   lipgloss.Color(chooseTextColor(allDayHex, t.Bg, t.Fg)),
		TextOnReadonly: lipgloss.Color(chooseTextColor(readonlyHex, t.Bg, t.Fg)),
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// Blocks are tinted towards the background on light themes and dimmed on
// dark ones. Read-only blocks get the stronger treatment.
func taskBaseBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return dim(accent, 0.50, 40)
}

func taskMutedBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.88)
	}
	return dim(accent, 0.30, 30)
}

// dim scales every channel of hex by factor, never below floor (0-255).
// Unparseable colors are returned unchanged.
func dim(hex string, factor float64, floor int) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	lo := float64(floor) / 255
	return colorful.Color{
		R: max(c.R*factor, lo),
		G: max(c.G*factor, lo),
		B: max(c.B*factor, lo),
	}.Clamped().Hex()
}

// alternateShade is the subtle variant used for adjacent blocks.
func alternateShade(hex string, isLight bool) string {
	if isLight {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

// chooseTextColor returns whichever candidate contrasts more with bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance follows WCAG 2.x. Invalid colors count as black.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func blendColors(a, b string, ratio float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}
