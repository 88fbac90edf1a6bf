// Package theme resolves an invoice theme selection into the full set of
// presentation tokens the document renderer consumes.
//
// Resolution is a total function over the closed color and icon style
// enumerations, backed by explicit lookup tables. Identifiers are never
// built by string interpolation: an out-of-enum value is an error, not a
// best-effort class name.
package theme

import (
	"fmt"

	"factorsaz.org/invoice-web/internal/invoice"
)

// Palette holds the shade ramp for one color. Every field must be populated
// for every color; ResolveAll in the tests walks the whole table.
type Palette struct {
	Tint   string // near-white panel wash
	Wash   string // soft border / divider
	Soft   string // footer text on dark band
	Muted  string // secondary accents (tax line, map pin)
	Base   string // gradient start
	Prime  string // primary fills and icon containers
	Strong string // emphasised row text
	Deep   string // gradient end
	Dark   string // dark bands (footer, total column head)
	Ink    string // header title
}

var palettes = map[invoice.Color]Palette{
	invoice.ColorSlate: {
		Tint: "#f8fafc", Wash: "#f1f5f9", Soft: "#e2e8f0", Muted: "#cbd5e1",
		Base: "#64748b", Prime: "#475569", Strong: "#334155", Deep: "#1e293b",
		Dark: "#0f172a", Ink: "#020617",
	},
	invoice.ColorBlue: {
		Tint: "#eff6ff", Wash: "#dbeafe", Soft: "#bfdbfe", Muted: "#93c5fd",
		Base: "#3b82f6", Prime: "#2563eb", Strong: "#1d4ed8", Deep: "#1e40af",
		Dark: "#1e3a8a", Ink: "#172554",
	},
	invoice.ColorIndigo: {
		Tint: "#eef2ff", Wash: "#e0e7ff", Soft: "#c7d2fe", Muted: "#a5b4fc",
		Base: "#6366f1", Prime: "#4f46e5", Strong: "#4338ca", Deep: "#3730a3",
		Dark: "#312e81", Ink: "#1e1b4b",
	},
	invoice.ColorViolet: {
		Tint: "#f5f3ff", Wash: "#ede9fe", Soft: "#ddd6fe", Muted: "#c4b5fd",
		Base: "#8b5cf6", Prime: "#7c3aed", Strong: "#6d28d9", Deep: "#5b21b6",
		Dark: "#4c1d95", Ink: "#2e1065",
	},
	invoice.ColorEmerald: {
		Tint: "#ecfdf5", Wash: "#d1fae5", Soft: "#a7f3d0", Muted: "#6ee7b7",
		Base: "#10b981", Prime: "#059669", Strong: "#047857", Deep: "#065f46",
		Dark: "#064e3b", Ink: "#022c22",
	},
	invoice.ColorRose: {
		Tint: "#fff1f2", Wash: "#ffe4e6", Soft: "#fecdd3", Muted: "#fda4af",
		Base: "#f43f5e", Prime: "#e11d48", Strong: "#be123c", Deep: "#9f1239",
		Dark: "#881337", Ink: "#4c0519",
	},
	invoice.ColorAmber: {
		Tint: "#fffbeb", Wash: "#fef3c7", Soft: "#fde68a", Muted: "#fcd34d",
		Base: "#f59e0b", Prime: "#d97706", Strong: "#b45309", Deep: "#92400e",
		Dark: "#78350f", Ink: "#451a03",
	},
	invoice.ColorCyan: {
		Tint: "#ecfeff", Wash: "#cffafe", Soft: "#a5f3fc", Muted: "#67e8f9",
		Base: "#06b6d4", Prime: "#0891b2", Strong: "#0e7490", Deep: "#155e75",
		Dark: "#164e63", Ink: "#083344",
	},
}

// IconContainer describes how a themed icon is wrapped on the document.
type IconContainer struct {
	Style      invoice.IconStyle
	Background string // empty for the bare-glyph variant
	Foreground string
	Radius     string // CSS border radius of the container
	Shadow     bool
}

// Tokens binds the single color selection to every palette-dependent
// surface of the rendered document. There is no per-surface override.
type Tokens struct {
	Color invoice.Color

	AccentFrom string
	AccentVia  string
	AccentTo   string

	HeaderTitle string

	SellerTint    string
	SellerBorder  string
	SellerHeading string
	SellerAccent  string

	TableHeadTotal   string
	LineEmphasis     string
	LineEmphasisTint string

	TaxLine string

	SignatureHover string

	FooterBand string
	FooterText string

	Primary string

	Icon IconContainer
}

// Resolve maps a theme selection to its presentation tokens. A wholly
// absent theme resolves to the documented default; a per-field value
// outside the enumeration is a configuration error.
func Resolve(t invoice.Theme) (Tokens, error) {
	if t.IsZero() {
		t = invoice.DefaultTheme()
	}
	p, ok := palettes[t.Color]
	if !ok {
		return Tokens{}, fmt.Errorf("%w: %q", invoice.ErrUnknownColor, t.Color)
	}
	icon, err := iconContainer(t.IconStyle, p)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		Color:            t.Color,
		AccentFrom:       p.Base,
		AccentVia:        p.Prime,
		AccentTo:         p.Deep,
		HeaderTitle:      p.Ink,
		SellerTint:       p.Tint,
		SellerBorder:     p.Wash,
		SellerHeading:    p.Strong,
		SellerAccent:     p.Muted,
		TableHeadTotal:   p.Dark,
		LineEmphasis:     p.Strong,
		LineEmphasisTint: p.Tint,
		TaxLine:          p.Muted,
		SignatureHover:   p.Muted,
		FooterBand:       p.Dark,
		FooterText:       p.Soft,
		Primary:          p.Prime,
		Icon:             icon,
	}, nil
}

func iconContainer(style invoice.IconStyle, p Palette) (IconContainer, error) {
	switch style {
	case invoice.IconModern:
		return IconContainer{
			Style:      invoice.IconModern,
			Background: p.Prime,
			Foreground: "#ffffff",
			Radius:     "12px",
			Shadow:     true,
		}, nil
	case invoice.IconMinimal:
		return IconContainer{
			Style:      invoice.IconMinimal,
			Foreground: p.Prime,
		}, nil
	case invoice.IconSolid:
		return IconContainer{
			Style:      invoice.IconSolid,
			Background: p.Prime,
			Foreground: "#ffffff",
			Radius:     "9999px",
		}, nil
	default:
		return IconContainer{}, fmt.Errorf("%w: %q", invoice.ErrUnknownIconStyle, style)
	}
}
