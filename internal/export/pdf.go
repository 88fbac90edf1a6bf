// Package export produces a downloadable A4 PDF copy of the invoice
// document. The layout consumes the same document tree as the HTML
// renderer, so the two outputs never disagree on content.
package export

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"factorsaz.org/invoice-web/internal/render"
)

const (
	pageMargin = 14.0
	pageWidth  = 210.0
	bodyWidth  = pageWidth - 2*pageMargin
)

// DejaVu Sans Condensed ships with full Arabic-block coverage, so Persian
// labels and free text keep their glyphs in the embedded subset.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var fontRegular []byte

//go:embed fonts/DejaVuSansCondensed-Bold.ttf
var fontBold []byte

//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
var fontOblique []byte

const fontFamily = "DejaVuCond"

// PDF writes doc as a single-page A4 portrait PDF.
func PDF(doc render.Document, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", fontOblique)
	pdf.AddPage()
	tr := textShaper(doc.Labels.Dir)

	// accent band
	r, g, b := hexRGB(doc.Theme.Primary)
	pdf.SetFillColor(r, g, b)
	pdf.Rect(0, 0, pageWidth, 4, "F")
	pdf.SetY(pageMargin)

	// header
	pdf.SetFont(fontFamily, "B", 22)
	pdf.SetTextColor(hexRGB(doc.Theme.HeaderTitle))
	pdf.CellFormat(bodyWidth/2, 10, tr(doc.Header.Title), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(bodyWidth/2, 5, tr(doc.Labels.NumberLabel+" "+doc.Header.Number), "", 1, "R", false, 0, "")
	pdf.SetX(pageMargin + bodyWidth/2)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(bodyWidth/2, 5, tr(doc.Labels.DateLabel+" "+doc.Header.Date), "", 1, "R", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(bodyWidth, 6, tr(doc.Header.Subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeParty(pdf, tr, pageMargin, doc.Parties.Seller)
	writeParty(pdf, tr, pageMargin+bodyWidth/2+4, doc.Parties.Buyer)
	pdf.Ln(6)

	writeItems(pdf, tr, doc)
	pdf.Ln(4)

	if doc.Notes != nil {
		writeNotes(pdf, tr, *doc.Notes)
		pdf.Ln(3)
	}
	writeTotals(pdf, tr, doc)

	// footer band
	pdf.SetFillColor(hexRGB(doc.Theme.FooterBand))
	pdf.Rect(0, 287, pageWidth, 10, "F")
	pdf.SetY(288)
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(hexRGB(doc.Theme.FooterText))
	pdf.CellFormat(bodyWidth, 8, tr(doc.Footer.Text), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

func writeParty(pdf *gofpdf.Fpdf, tr func(string) string, x float64, p render.Party) {
	colWidth := bodyWidth/2 - 4
	top := pdf.GetY()
	pdf.SetXY(x, top)
	pdf.SetFillColor(hexRGB(p.Tint))
	pdf.SetDrawColor(hexRGB(p.Border))
	height := 28.0
	pdf.Rect(x, top, colWidth, height, "FD")

	pdf.SetXY(x+3, top+3)
	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetTextColor(hexRGB(p.HeadingColor))
	pdf.CellFormat(colWidth-6, 4, tr(strings.ToUpper(p.Heading)), "", 2, "L", false, 0, "")
	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(colWidth-6, 6, tr(p.Name), "", 2, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(71, 85, 105)
	if p.Detail != "" {
		pdf.CellFormat(colWidth-6, 4, tr(p.Detail), "", 2, "L", false, 0, "")
	}
	for _, line := range p.ContactLines {
		pdf.CellFormat(colWidth-6, 4, tr(line), "", 2, "L", false, 0, "")
	}
	pdf.SetY(top)
	if x > pageMargin {
		pdf.SetY(top + height)
	}
}

func writeItems(pdf *gofpdf.Fpdf, tr func(string) string, doc render.Document) {
	widths := []float64{12, 86, 20, 30, 34}
	heads := []string{
		doc.Labels.ColIndex,
		doc.Labels.ColItem,
		doc.Labels.ColQuantity,
		doc.Labels.ColUnitPrice,
		doc.Labels.ColLineTotal,
	}

	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetFillColor(15, 23, 42)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range heads {
		pdf.CellFormat(widths[i], 8, tr(strings.ToUpper(h)), "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	if len(doc.Items.Rows) == 0 {
		pdf.SetFont(fontFamily, "I", 10)
		pdf.SetTextColor(148, 163, 184)
		pdf.CellFormat(bodyWidth, 16, tr(doc.Items.Placeholder), "B", 1, "C", false, 0, "")
		return
	}

	emR, emG, emB := hexRGB(doc.Theme.LineEmphasis)
	for _, row := range doc.Items.Rows {
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(148, 163, 184)
		pdf.CellFormat(widths[0], 9, strconv.Itoa(row.Index), "B", 0, "L", false, 0, "")
		pdf.SetTextColor(15, 23, 42)
		pdf.SetFont(fontFamily, "B", 9)
		title := row.Title
		if row.Description != "" {
			title = fmt.Sprintf("%s - %s", row.Title, row.Description)
		}
		pdf.CellFormat(widths[1], 9, tr(title), "B", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(71, 85, 105)
		pdf.CellFormat(widths[2], 9, row.Quantity, "B", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 9, row.UnitPrice, "B", 0, "R", false, 0, "")
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetTextColor(emR, emG, emB)
		pdf.CellFormat(widths[4], 9, row.LineTotal, "B", 1, "R", false, 0, "")
	}
}

func writeNotes(pdf *gofpdf.Fpdf, tr func(string) string, notes render.NotesPanel) {
	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetTextColor(146, 64, 14)
	pdf.CellFormat(bodyWidth, 5, tr(strings.ToUpper(notes.Heading)), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(120, 53, 15)
	for _, line := range notes.Lines {
		pdf.MultiCell(bodyWidth, 4.5, tr(line), "", "L", false)
	}
}

func writeTotals(pdf *gofpdf.Fpdf, tr func(string) string, doc render.Document) {
	labelW, amountW := bodyWidth-60, 60.0

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(labelW, 7, tr(doc.Totals.SubtotalLabel), "", 0, "R", false, 0, "")
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(amountW, 7, doc.Totals.Subtotal, "", 1, "R", false, 0, "")

	if doc.Totals.Tax != nil {
		pdf.SetTextColor(hexRGB(doc.Theme.Primary))
		pdf.CellFormat(labelW, 7, tr(doc.Totals.Tax.Label), "", 0, "R", false, 0, "")
		pdf.CellFormat(amountW, 7, doc.Totals.Tax.Amount, "", 1, "R", false, 0, "")
	}

	pdf.SetFont(fontFamily, "B", 13)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(labelW, 10, tr(doc.Totals.TotalLabel), "T", 0, "R", false, 0, "")
	pdf.CellFormat(amountW, 10, doc.Totals.Total+" "+tr(doc.Totals.Unit), "T", 1, "R", false, 0, "")
}

// textShaper returns the per-cell text transform for the document
// direction. gofpdf draws runes in storage order, so right-to-left text
// must be put into visual order before it reaches the page.
func textShaper(dir string) func(string) string {
	if dir != "rtl" {
		return func(s string) string { return s }
	}
	return displayOrder
}

// displayOrder rearranges a logical-order string for visual left-to-right
// drawing: runs keep their internal direction (right-to-left runs are
// reversed rune-wise, Latin and digit runs stay as-is) and the run
// sequence itself is flipped. Neutral characters attach to the run in
// progress.
func displayOrder(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	type run struct {
		rtl   bool
		runes []rune
	}
	var runs []run
	cur := run{rtl: isRTLRune(runes[0])}
	for _, r := range runes {
		switch {
		case isRTLRune(r):
			if !cur.rtl && len(cur.runes) > 0 {
				runs = append(runs, cur)
				cur = run{rtl: true}
			}
			cur.rtl = true
		case isLTRRune(r):
			if cur.rtl && len(cur.runes) > 0 {
				runs = append(runs, cur)
				cur = run{rtl: false}
			}
			cur.rtl = false
		}
		cur.runes = append(cur.runes, r)
	}
	runs = append(runs, cur)

	var out []rune
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].rtl {
			out = append(out, reverseRunes(runs[i].runes)...)
		} else {
			out = append(out, runs[i].runes...)
		}
	}
	return string(out)
}

func isRTLRune(r rune) bool {
	// Extended Arabic-Indic digits read left to right like Latin digits.
	if r >= 0x06F0 && r <= 0x06F9 {
		return false
	}
	return (r >= 0x0590 && r <= 0x08FF) ||
		(r >= 0xFB1D && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF)
}

func isLTRRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func reverseRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}

// hexRGB parses "#rrggbb" into its components. Unparseable input maps to
// black rather than failing the export.
func hexRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}
