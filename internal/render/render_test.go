package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorsaz.org/invoice-web/internal/format"
	"factorsaz.org/invoice-web/internal/invoice"
)

func renderDoc(t *testing.T, data invoice.InvoiceData) (*goquery.Document, Document) {
	t.Helper()
	doc, err := BuildDocument(data, DefaultLabels())
	require.NoError(t, err)
	html, err := NewRenderer().RenderHTML(doc)
	require.NoError(t, err)
	q, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return q, doc
}

func sampleInvoice() invoice.InvoiceData {
	item := invoice.NewLineItem()
	item.Title = "Design work"
	item.Description = "Landing page"
	item.Quantity = 2
	item.UnitPrice = 1000000
	second := invoice.NewLineItem()
	second.Title = "Hosting"
	second.Quantity = 1
	second.UnitPrice = 500000
	return invoice.InvoiceData{
		InvoiceNumber: "2608-4412",
		Date:          "2026/08/31",
		SellerName:    "Sara Ahmadi",
		SellerTitle:   "Product designer",
		CustomerName:  "Acme Ltd",
		Items:         []invoice.LineItem{item, second},
		TaxRate:       9,
		Theme:         invoice.DefaultTheme(),
	}
}

func TestRenderFullInvoice(t *testing.T) {
	q, doc := renderDoc(t, sampleInvoice())

	sheet := q.Find(".invoice-sheet")
	require.Equal(t, 1, sheet.Length())
	dir, _ := sheet.Attr("dir")
	assert.Equal(t, "ltr", dir)

	assert.Equal(t, "2608-4412", q.Find(".invoice-number").Text())
	assert.Equal(t, "2026/08/31", q.Find(".invoice-date").Text())

	rows := q.Find("tbody tr.item-row")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, 0, q.Find(".placeholder-row").Length())

	first := rows.First()
	assert.Equal(t, "1", first.Find(".row-index").Text())
	assert.Equal(t, "Design work", first.Find(".item-title").Text())
	assert.Equal(t, "Landing page", first.Find(".item-description").Text())
	assert.Equal(t, "2,000,000", first.Find(".line-total").Text())

	assert.Equal(t, doc.Totals.Subtotal, q.Find(".totals-subtotal .amount").Text())
	assert.Equal(t, doc.Totals.Total, q.Find(".totals-total .amount").Text())
}

// The tax row appears only for a positive rate and carries a prefixed amount.
func TestRenderTaxRow(t *testing.T) {
	data := sampleInvoice()
	q, _ := renderDoc(t, data)
	tax := q.Find(".totals-tax")
	require.Equal(t, 1, tax.Length())
	assert.Contains(t, tax.Text(), "Tax (9%)")
	assert.Equal(t, "+225,000", tax.Find(".amount").Text())

	data.TaxRate = 0
	q, _ = renderDoc(t, data)
	assert.Equal(t, 0, q.Find(".totals-tax").Length())
}

func TestRenderEmptyItemsPlaceholder(t *testing.T) {
	data := sampleInvoice()
	data.Items = nil
	q, _ := renderDoc(t, data)

	assert.Equal(t, 0, q.Find("tbody tr.item-row").Length())
	placeholder := q.Find(".placeholder-row")
	require.Equal(t, 1, placeholder.Length())
	assert.Equal(t, "No items added", strings.TrimSpace(placeholder.Text()))
	assert.Equal(t, "0", q.Find(".totals-total .amount").Text())
}

func TestRenderNotesPanel(t *testing.T) {
	data := sampleInvoice()
	data.Note = "Payment within 7 days\nBank transfer only"
	q, _ := renderDoc(t, data)
	notes := q.Find(".notes-panel")
	require.Equal(t, 1, notes.Length())
	assert.Equal(t, 2, notes.Find("p").Length())

	data.Note = "   \n  "
	q, _ = renderDoc(t, data)
	assert.Equal(t, 0, q.Find(".notes-panel").Length(), "whitespace note renders no panel")
}

func TestRenderEmptyNamesFallBack(t *testing.T) {
	data := sampleInvoice()
	data.SellerName = ""
	data.CustomerName = "   "
	q, _ := renderDoc(t, data)
	assert.Equal(t, "---", q.Find(".party-seller .party-name").Text())
	assert.Equal(t, "---", q.Find(".party-buyer .party-name").Text())
}

// Rendered totals must equal the calculator run on the same input.
func TestRenderTotalsMatchCalculator(t *testing.T) {
	data := sampleInvoice()
	q, doc := renderDoc(t, data)

	want := invoice.ComputeTotals(data.Items, data.TaxRate)
	assert.Equal(t, want, doc.Amounts)
	assert.Equal(t, format.Number(want.Subtotal), q.Find(".totals-subtotal .amount").Text())
	assert.Equal(t, format.Number(want.Total), q.Find(".totals-total .amount").Text())
}

func TestRenderIsIdempotent(t *testing.T) {
	doc, err := BuildDocument(sampleInvoice(), DefaultLabels())
	require.NoError(t, err)
	r := NewRenderer()
	a, err := r.RenderHTML(doc)
	require.NoError(t, err)
	b, err := r.RenderHTML(doc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderThemedSurfaces(t *testing.T) {
	data := sampleInvoice()
	data.Theme = invoice.Theme{Color: invoice.ColorRose, IconStyle: invoice.IconSolid}
	q, doc := renderDoc(t, data)

	style, _ := q.Find(".party-seller").Attr("style")
	assert.Contains(t, style, doc.Theme.SellerTint)

	footer, _ := q.Find(".footer-strip").Attr("style")
	assert.Contains(t, footer, doc.Theme.FooterBand)

	icon, _ := q.Find(".icon-wrap").Attr("style")
	assert.Contains(t, icon, "9999px")
}

// The font stack must survive the template's CSS value filter; a filtered
// value shows up as the ZgotmplZ sentinel and the sheet loses its font.
func TestRenderFontFamilyApplied(t *testing.T) {
	doc, err := BuildDocument(invoice.Default(), DefaultLabels())
	require.NoError(t, err)
	html, err := NewRenderer().RenderHTML(doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "ZgotmplZ")
	assert.Contains(t, html, "font-family:Vazirmatn, sans-serif")
}

func TestBuildDocumentRejectsUnknownTheme(t *testing.T) {
	data := sampleInvoice()
	data.Theme = invoice.Theme{Color: "teal", IconStyle: invoice.IconModern}
	_, err := BuildDocument(data, DefaultLabels())
	assert.ErrorIs(t, err, invoice.ErrUnknownColor)
}
