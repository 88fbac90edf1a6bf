// Package render composes the data model, totals calculator and theme
// resolver into a print-ready document tree and renders it to HTML.
//
// BuildDocument is a pure transform: the same InvoiceData value always
// yields the same Document, and the tree carries every display string
// preformatted so the HTML layer stays free of logic.
package render

import (
	"fmt"
	"strings"

	"factorsaz.org/invoice-web/internal/format"
	"factorsaz.org/invoice-web/internal/invoice"
	"factorsaz.org/invoice-web/internal/theme"
)

// Labels carries every static string on the document so the core stays
// locale-agnostic. Callers localize; DefaultLabels is English.
type Labels struct {
	Dir  string // "rtl" or "ltr"
	Font string

	Title    string
	Subtitle string

	NumberLabel string
	DateLabel   string

	SellerHeading string
	BuyerHeading  string
	EmptyName     string

	ColIndex     string
	ColItem      string
	ColQuantity  string
	ColUnitPrice string
	ColLineTotal string
	EmptyItems   string

	NotesHeading string

	SubtotalLabel string
	TaxFormat     string // fmt format with one %s slot for the rate
	TotalLabel    string
	Unit          string

	SellerSignBox     string
	SellerSignCaption string
	BuyerSignBox      string
	BuyerSignCaption  string

	FooterText string
}

// DefaultLabels returns the English label set.
func DefaultLabels() Labels {
	return Labels{
		Dir:               "ltr",
		Font:              "Vazirmatn, sans-serif",
		Title:             "Invoice",
		Subtitle:          "Invoice & Services",
		NumberLabel:       "Number:",
		DateLabel:         "Date:",
		SellerHeading:     "Seller (Provider)",
		BuyerHeading:      "Buyer (Client)",
		EmptyName:         "---",
		ColIndex:          "#",
		ColItem:           "Description of services / goods",
		ColQuantity:       "Qty",
		ColUnitPrice:      "Unit price",
		ColLineTotal:      "Line total",
		EmptyItems:        "No items added",
		NotesHeading:      "Notes & terms",
		SubtotalLabel:     "Items subtotal",
		TaxFormat:         "Tax (%s%%)",
		TotalLabel:        "Amount payable",
		Unit:              "Toman",
		SellerSignBox:     "Seller stamp & signature",
		SellerSignCaption: "Seller signature",
		BuyerSignBox:      "Buyer stamp & signature",
		BuyerSignCaption:  "Buyer signature",
		FooterText:        "Thank you for your business",
	}
}

// Document is the fixed-region, print-ready layout tree. Regions appear in
// document order; the renderer adds no further layout decisions.
type Document struct {
	Theme  theme.Tokens
	Labels Labels

	// Amounts holds the exact calculator output embedded in this document.
	Amounts invoice.Totals

	AccentBar AccentBar
	Header    Header
	Parties   Parties
	Items     ItemTable
	Notes     *NotesPanel
	Totals    TotalsPanel
	Signature SignatureArea
	Footer    FooterStrip
}

// AccentBar is the themed decorative band at the very top.
type AccentBar struct {
	From, Via, To string
}

// Header shows the title block and the invoice metadata card. Number and
// date are rendered verbatim.
type Header struct {
	Title    string
	Subtitle string
	Number   string
	Date     string
	Icon     theme.IconContainer
}

// Party is one side of the parties section, with its panel colors resolved.
// The seller panel is themed; the buyer panel uses a fixed neutral palette.
type Party struct {
	Heading      string
	Name         string
	Detail       string
	ContactLines []string

	Tint         string
	Border       string
	HeadingColor string
	AccentColor  string
}

type Parties struct {
	Seller Party
	Buyer  Party
}

// ItemRow is one table row. Index is positional and 1-based, re-derived
// from the sequence on every build.
type ItemRow struct {
	Index       int
	Title       string
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// ItemTable renders one row per line item; when there are none, Placeholder
// holds the single full-width explanation row instead.
type ItemTable struct {
	Rows        []ItemRow
	Placeholder string
}

// NotesPanel appears only for a non-empty note and preserves line breaks.
type NotesPanel struct {
	Heading string
	Lines   []string
}

// TaxLine is present iff the tax rate is positive; its label embeds the
// literal percentage.
type TaxLine struct {
	Label  string
	Amount string
}

type TotalsPanel struct {
	SubtotalLabel string
	Subtotal      string
	Tax           *TaxLine
	TotalLabel    string
	Total         string
	Unit          string
}

type SignatureBox struct {
	Placeholder string
	Caption     string
}

type SignatureArea struct {
	Seller SignatureBox
	Buyer  SignatureBox
}

type FooterStrip struct {
	Text string
}

// Neutral buyer-panel palette, independent of the theme selection.
const (
	buyerTint    = "#f8fafc"
	buyerBorder  = "#e2e8f0"
	buyerHeading = "#475569"
	buyerAccent  = "#cbd5e1"
)

// BuildDocument derives the document tree from an invoice value. It fails
// only on an out-of-enum theme; every well-typed InvoiceData renders,
// including empty items and zero tax.
func BuildDocument(data invoice.InvoiceData, labels Labels) (Document, error) {
	tokens, err := theme.Resolve(data.Theme)
	if err != nil {
		return Document{}, err
	}
	totals := invoice.ComputeTotals(data.Items, data.TaxRate)

	doc := Document{
		Theme:   tokens,
		Labels:  labels,
		Amounts: totals,
		AccentBar: AccentBar{
			From: tokens.AccentFrom,
			Via:  tokens.AccentVia,
			To:   tokens.AccentTo,
		},
		Header: Header{
			Title:    labels.Title,
			Subtitle: labels.Subtitle,
			Number:   data.InvoiceNumber,
			Date:     data.Date,
			Icon:     tokens.Icon,
		},
		Parties: Parties{
			Seller: Party{
				Heading:      labels.SellerHeading,
				Name:         orEmptyName(data.SellerName, labels),
				Detail:       data.SellerTitle,
				ContactLines: contactLines(data.SellerContact),
				Tint:         tokens.SellerTint,
				Border:       tokens.SellerBorder,
				HeadingColor: tokens.SellerHeading,
				AccentColor:  tokens.SellerAccent,
			},
			Buyer: Party{
				Heading:      labels.BuyerHeading,
				Name:         orEmptyName(data.CustomerName, labels),
				Detail:       data.CustomerCompany,
				ContactLines: contactLines(data.CustomerContact),
				Tint:         buyerTint,
				Border:       buyerBorder,
				HeadingColor: buyerHeading,
				AccentColor:  buyerAccent,
			},
		},
		Items: buildItemTable(data.Items, labels),
		Totals: TotalsPanel{
			SubtotalLabel: labels.SubtotalLabel,
			Subtotal:      format.Number(totals.Subtotal),
			TotalLabel:    labels.TotalLabel,
			Total:         format.Number(totals.Total),
			Unit:          labels.Unit,
		},
		Signature: SignatureArea{
			Seller: SignatureBox{Placeholder: labels.SellerSignBox, Caption: labels.SellerSignCaption},
			Buyer:  SignatureBox{Placeholder: labels.BuyerSignBox, Caption: labels.BuyerSignCaption},
		},
		Footer: FooterStrip{Text: labels.FooterText},
	}

	// Tax row shown iff the rate is positive, not merely when the amount
	// is non-zero.
	if data.TaxRate > 0 {
		doc.Totals.Tax = &TaxLine{
			Label:  taxLabel(labels, data.TaxRate),
			Amount: "+" + format.Number(totals.TaxAmount),
		}
	}

	if data.HasNote() {
		doc.Notes = &NotesPanel{
			Heading: labels.NotesHeading,
			Lines:   strings.Split(data.Note, "\n"),
		}
	}

	return doc, nil
}

func buildItemTable(items []invoice.LineItem, labels Labels) ItemTable {
	if len(items) == 0 {
		return ItemTable{Placeholder: labels.EmptyItems}
	}
	rows := make([]ItemRow, 0, len(items))
	for i, it := range items {
		rows = append(rows, ItemRow{
			Index:       i + 1,
			Title:       it.Title,
			Description: it.Description,
			Quantity:    format.Number(it.Quantity),
			UnitPrice:   format.Number(it.UnitPrice),
			LineTotal:   format.Number(it.LineTotal()),
		})
	}
	return ItemTable{Rows: rows}
}

func taxLabel(labels Labels, rate float64) string {
	return fmt.Sprintf(labels.TaxFormat, format.Number(rate))
}

func contactLines(contact string) []string {
	if strings.TrimSpace(contact) == "" {
		return nil
	}
	return strings.Split(contact, "\n")
}

func orEmptyName(name string, labels Labels) string {
	if strings.TrimSpace(name) == "" {
		return labels.EmptyName
	}
	return name
}
