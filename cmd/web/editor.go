package main

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"factorsaz.org/invoice-web/internal/invoice"
	"factorsaz.org/invoice-web/internal/render"
)

type ThemeOption struct {
	Value    string
	Label    string
	Swatch   string
	Selected bool
}

type EditorCopy struct {
	Heading         string
	InvoiceInfo     string
	InvoiceNumber   string
	Date            string
	DueDate         string
	Seller          string
	SellerName      string
	SellerTitle     string
	SellerContact   string
	Buyer           string
	BuyerName       string
	BuyerCompany    string
	BuyerContact    string
	Items           string
	AddItem         string
	RemoveItem      string
	ItemTitle       string
	ItemDescription string
	Quantity        string
	UnitPrice       string
	TaxRate         string
	Note            string
	Theme           string
	ThemeColor      string
	ThemeIcon       string
	Update          string
	Preview         string
	Print           string
	DownloadPDF     string
	AssistantOpen   string
}

// EditorView is the full editor page model: the draft being edited, the
// rendered preview beside it, and every localized string the template
// needs.
type EditorView struct {
	Lang        string
	Dir         string
	Title       string
	CSRFToken   string
	Copy        EditorCopy
	Data        invoice.InvoiceData
	Colors      []ThemeOption
	IconStyles  []ThemeOption
	PreviewHTML string
	AIEnabled   bool
}

func editorCopyFor(lang string) EditorCopy {
	t := func(key string) string { return i18nBundle.T(lang, key) }
	return EditorCopy{
		Heading:         t("editor.heading"),
		InvoiceInfo:     t("editor.invoice_info"),
		InvoiceNumber:   t("editor.invoice_number"),
		Date:            t("editor.date"),
		DueDate:         t("editor.due_date"),
		Seller:          t("editor.seller"),
		SellerName:      t("editor.seller_name"),
		SellerTitle:     t("editor.seller_title"),
		SellerContact:   t("editor.seller_contact"),
		Buyer:           t("editor.buyer"),
		BuyerName:       t("editor.buyer_name"),
		BuyerCompany:    t("editor.buyer_company"),
		BuyerContact:    t("editor.buyer_contact"),
		Items:           t("editor.items"),
		AddItem:         t("editor.add_item"),
		RemoveItem:      t("editor.remove_item"),
		ItemTitle:       t("editor.item_title"),
		ItemDescription: t("editor.item_description"),
		Quantity:        t("editor.quantity"),
		UnitPrice:       t("editor.unit_price"),
		TaxRate:         t("editor.tax_rate"),
		Note:            t("editor.note"),
		Theme:           t("editor.theme"),
		ThemeColor:      t("editor.theme_color"),
		ThemeIcon:       t("editor.theme_icon"),
		Update:          t("editor.update"),
		Preview:         t("editor.preview"),
		Print:           t("editor.print"),
		DownloadPDF:     t("editor.download_pdf"),
		AssistantOpen:   t("assistant.open"),
	}
}

// swatches give the color picker a representative hex per option.
var colorSwatches = map[invoice.Color]string{
	invoice.ColorSlate:   "#475569",
	invoice.ColorBlue:    "#2563eb",
	invoice.ColorIndigo:  "#4f46e5",
	invoice.ColorViolet:  "#7c3aed",
	invoice.ColorEmerald: "#059669",
	invoice.ColorRose:    "#e11d48",
	invoice.ColorAmber:   "#d97706",
	invoice.ColorCyan:    "#0891b2",
}

func colorOptions(lang string, selected invoice.Color) []ThemeOption {
	opts := make([]ThemeOption, 0, len(invoice.Colors()))
	for _, c := range invoice.Colors() {
		opts = append(opts, ThemeOption{
			Value:    string(c),
			Label:    i18nBundle.T(lang, "color."+string(c)),
			Swatch:   colorSwatches[c],
			Selected: c == selected,
		})
	}
	return opts
}

func iconStyleOptions(lang string, selected invoice.IconStyle) []ThemeOption {
	opts := make([]ThemeOption, 0, len(invoice.IconStyles()))
	for _, s := range invoice.IconStyles() {
		opts = append(opts, ThemeOption{
			Value:    string(s),
			Label:    i18nBundle.T(lang, "icon."+string(s)),
			Selected: s == selected,
		})
	}
	return opts
}

// documentLabels localizes the invoice document itself, independently of
// the surrounding editor chrome.
func documentLabels(lang string) render.Labels {
	t := func(key string) string { return i18nBundle.T(lang, key) }
	return render.Labels{
		Dir:               i18nBundle.Dir(lang),
		Font:              t("doc.font"),
		Title:             t("doc.title"),
		Subtitle:          t("doc.subtitle"),
		NumberLabel:       t("doc.number"),
		DateLabel:         t("doc.date"),
		SellerHeading:     t("doc.seller"),
		BuyerHeading:      t("doc.buyer"),
		EmptyName:         t("doc.empty_name"),
		ColIndex:          t("doc.col_index"),
		ColItem:           t("doc.col_item"),
		ColQuantity:       t("doc.col_qty"),
		ColUnitPrice:      t("doc.col_unit_price"),
		ColLineTotal:      t("doc.col_line_total"),
		EmptyItems:        t("doc.empty_items"),
		NotesHeading:      t("doc.notes"),
		SubtotalLabel:     t("doc.subtotal"),
		TaxFormat:         t("doc.tax_format"),
		TotalLabel:        t("doc.total"),
		Unit:              t("doc.unit"),
		SellerSignBox:     t("doc.seller_sign_box"),
		SellerSignCaption: t("doc.seller_sign_caption"),
		BuyerSignBox:      t("doc.buyer_sign_box"),
		BuyerSignCaption:  t("doc.buyer_sign_caption"),
		FooterText:        t("doc.footer"),
	}
}

// invoiceFromForm rebuilds the whole draft from the posted editor form.
// Item rows arrive as parallel indexed fields; existing item IDs are
// preserved so assistant targeting stays stable across edits.
func invoiceFromForm(form url.Values) (invoice.InvoiceData, error) {
	data := invoice.InvoiceData{
		InvoiceNumber:   strings.TrimSpace(form.Get("invoice_number")),
		Date:            strings.TrimSpace(form.Get("date")),
		DueDate:         strings.TrimSpace(form.Get("due_date")),
		SellerName:      form.Get("seller_name"),
		SellerTitle:     form.Get("seller_title"),
		SellerContact:   form.Get("seller_contact"),
		CustomerName:    form.Get("customer_name"),
		CustomerCompany: form.Get("customer_company"),
		CustomerContact: form.Get("customer_contact"),
		TaxRate:         readFloat(form.Get("tax_rate")),
		Note:            form.Get("note"),
	}

	rawColor := strings.TrimSpace(form.Get("theme_color"))
	rawStyle := strings.TrimSpace(form.Get("theme_icon"))
	if rawColor == "" && rawStyle == "" {
		data.Theme = invoice.DefaultTheme()
	} else {
		color, err := invoice.ParseColor(rawColor)
		if err != nil {
			return invoice.InvoiceData{}, fmt.Errorf("theme color: %w", err)
		}
		style, err := invoice.ParseIconStyle(rawStyle)
		if err != nil {
			return invoice.InvoiceData{}, fmt.Errorf("icon style: %w", err)
		}
		data.Theme = invoice.Theme{Color: color, IconStyle: style}
	}

	ids := form["item_id"]
	titles := form["item_title"]
	descriptions := form["item_description"]
	quantities := form["item_quantity"]
	prices := form["item_price"]

	items := make([]invoice.LineItem, 0, len(ids))
	for i, id := range ids {
		item := invoice.LineItem{ID: strings.TrimSpace(id)}
		if item.ID == "" {
			item = invoice.NewLineItem()
		}
		item.Title = indexed(titles, i)
		item.Description = indexed(descriptions, i)
		item.Quantity = readFloat(indexed(quantities, i))
		item.UnitPrice = readFloat(indexed(prices, i))
		items = append(items, item)
	}
	data.Items = items

	return data, nil
}

func indexed(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}

// readFloat coerces user numeric input; anything unparseable becomes 0.
// ParseFloat accepts "NaN" and "Inf", which would poison every derived
// total, so non-finite values also map to 0.
func readFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
