package invoice

import (
	"errors"
	"fmt"
)

// Color is the closed palette enumeration. Anything outside the eight
// values below fails validation; there is no silent default for a bad value.
type Color string

const (
	ColorSlate   Color = "slate"
	ColorBlue    Color = "blue"
	ColorIndigo  Color = "indigo"
	ColorViolet  Color = "violet"
	ColorEmerald Color = "emerald"
	ColorRose    Color = "rose"
	ColorAmber   Color = "amber"
	ColorCyan    Color = "cyan"
)

// Colors lists the palette in display order (mirrors the editor swatch row).
func Colors() []Color {
	return []Color{
		ColorIndigo, ColorBlue, ColorViolet, ColorEmerald,
		ColorRose, ColorAmber, ColorCyan, ColorSlate,
	}
}

// IconStyle selects how themed icons are containered on the document.
type IconStyle string

const (
	IconModern  IconStyle = "modern"
	IconMinimal IconStyle = "minimal"
	IconSolid   IconStyle = "solid"
)

// IconStyles lists the closed icon style enumeration.
func IconStyles() []IconStyle {
	return []IconStyle{IconModern, IconMinimal, IconSolid}
}

var (
	ErrUnknownColor     = errors.New("invoice: unknown theme color")
	ErrUnknownIconStyle = errors.New("invoice: unknown icon style")
)

// ParseColor validates a raw enum value.
func ParseColor(raw string) (Color, error) {
	c := Color(raw)
	for _, known := range Colors() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, raw)
}

// ParseIconStyle validates a raw enum value.
func ParseIconStyle(raw string) (IconStyle, error) {
	s := IconStyle(raw)
	for _, known := range IconStyles() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIconStyle, raw)
}

// Theme is the presentation selection carried by every InvoiceData.
type Theme struct {
	Color     Color
	IconStyle IconStyle
}

// DefaultTheme is the documented fallback for the whole-theme-missing case.
func DefaultTheme() Theme {
	return Theme{Color: ColorIndigo, IconStyle: IconModern}
}

// IsZero reports a wholly absent theme, the only state that may fall back
// to DefaultTheme.
func (t Theme) IsZero() bool {
	return t.Color == "" && t.IconStyle == ""
}

// Validate rejects per-field out-of-enum values. A zero theme is valid
// because it resolves to the documented default as a whole.
func (t Theme) Validate() error {
	if t.IsZero() {
		return nil
	}
	if _, err := ParseColor(string(t.Color)); err != nil {
		return err
	}
	if _, err := ParseIconStyle(string(t.IconStyle)); err != nil {
		return err
	}
	return nil
}
