package render

import (
	"bytes"
	"html/template"
)

// Renderer turns a document tree into a self-contained HTML rendering root
// sized for A4 portrait. An external paginator needs no further layout
// decisions to rasterize it.
type Renderer interface {
	RenderHTML(doc Document) (string, error)
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice-sheet").Parse(sheetTemplate)),
	}
}

// RenderHTML is deterministic: the same document always yields the same
// markup, byte for byte.
func (r *HTMLRenderer) RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const fileGlyph = `<svg viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><polyline points="14 2 14 8 20 8"/><line x1="16" y1="13" x2="8" y2="13"/><line x1="16" y1="17" x2="8" y2="17"/></svg>`

const sheetTemplate = `<div class="invoice-sheet" dir="{{.Labels.Dir}}" style="font-family:{{.Labels.Font}}">
<style>
  .invoice-sheet { width: 210mm; min-height: 297mm; margin: 0 auto; background: #ffffff; color: #1e293b; display: flex; flex-direction: column; overflow: hidden; position: relative; line-height: 1.7; }
  .invoice-sheet .accent-bar { height: 12px; width: 100%; }
  .invoice-sheet .sheet-header { background: #f8fafc; padding: 40px 48px; border-bottom: 1px solid #f1f5f9; display: flex; justify-content: space-between; align-items: flex-start; }
  .invoice-sheet .title-block { display: flex; align-items: center; gap: 12px; }
  .invoice-sheet .title-block h1 { font-size: 34px; font-weight: 900; margin: 0; letter-spacing: -0.02em; }
  .invoice-sheet .subtitle { color: #64748b; font-weight: 500; margin: 8px 0 0; }
  .invoice-sheet .icon-wrap { display: inline-flex; padding: 10px; }
  .invoice-sheet .icon-wrap.icon-shadow { box-shadow: 0 10px 15px -3px rgba(15, 23, 42, 0.15); }
  .invoice-sheet .icon-bare { display: inline-flex; }
  .invoice-sheet .meta-card { background: #ffffff; padding: 20px; border-radius: 16px; border: 1px solid #f1f5f9; box-shadow: 0 1px 2px rgba(15, 23, 42, 0.05); min-width: 220px; }
  .invoice-sheet .meta-row { display: flex; justify-content: space-between; gap: 16px; padding: 6px 0; }
  .invoice-sheet .meta-row + .meta-row { border-top: 1px solid #f1f5f9; }
  .invoice-sheet .meta-label { color: #94a3b8; font-size: 11px; font-weight: 700; text-transform: uppercase; }
  .invoice-sheet .meta-value { font-weight: 700; color: #0f172a; }
  .invoice-sheet .mono { font-family: ui-monospace, monospace; }
  .invoice-sheet .sheet-body { padding: 48px; flex: 1; }
  .invoice-sheet .parties { display: grid; grid-template-columns: 1fr 1fr; gap: 48px; margin-bottom: 48px; }
  .invoice-sheet .party-panel { border-radius: 16px; padding: 24px; border: 1px solid; }
  .invoice-sheet .party-heading { font-size: 12px; font-weight: 700; text-transform: uppercase; letter-spacing: 0.05em; padding-bottom: 12px; margin-bottom: 16px; border-bottom: 1px solid; }
  .invoice-sheet .party-name { font-size: 20px; font-weight: 900; color: #0f172a; margin: 0 0 4px; }
  .invoice-sheet .party-detail { font-size: 14px; font-weight: 500; margin: 0; }
  .invoice-sheet .party-contact { margin-top: 12px; color: #64748b; font-size: 13px; }
  .invoice-sheet .item-table-wrap { border: 1px solid #e2e8f0; border-radius: 12px; overflow: hidden; box-shadow: 0 1px 2px rgba(15, 23, 42, 0.05); margin-bottom: 48px; }
  .invoice-sheet table { width: 100%; border-collapse: collapse; }
  .invoice-sheet thead tr { background: #0f172a; color: #ffffff; }
  .invoice-sheet th { padding: 14px 24px; font-size: 11px; font-weight: 700; text-transform: uppercase; letter-spacing: 0.05em; text-align: start; }
  .invoice-sheet td { padding: 16px 24px; border-top: 1px solid #f1f5f9; vertical-align: top; }
  .invoice-sheet .row-index { color: #94a3b8; font-family: ui-monospace, monospace; font-size: 13px; }
  .invoice-sheet .item-title { font-weight: 700; color: #0f172a; margin: 0 0 4px; }
  .invoice-sheet .item-description { color: #64748b; font-size: 12px; margin: 0; }
  .invoice-sheet .cell-number { font-family: ui-monospace, monospace; font-size: 13px; color: #475569; }
  .invoice-sheet .placeholder-row td { padding: 48px 24px; text-align: center; color: #cbd5e1; font-style: italic; }
  .invoice-sheet .lower-grid { display: grid; grid-template-columns: 7fr 5fr; gap: 32px; align-items: start; }
  .invoice-sheet .notes-panel { background: #fffbeb; border: 1px solid #fef3c7; border-radius: 12px; padding: 20px; }
  .invoice-sheet .notes-heading { color: #92400e; font-size: 11px; font-weight: 700; text-transform: uppercase; margin: 0 0 12px; }
  .invoice-sheet .notes-panel p { color: rgba(120, 53, 15, 0.8); font-size: 13px; margin: 0; }
  .invoice-sheet .totals-panel { background: #0f172a; color: #ffffff; border-radius: 16px; padding: 32px; box-shadow: 0 20px 25px -5px rgba(15, 23, 42, 0.25); }
  .invoice-sheet .totals-row { display: flex; justify-content: space-between; font-size: 14px; margin-bottom: 16px; }
  .invoice-sheet .totals-subtotal { color: #94a3b8; }
  .invoice-sheet .totals-subtotal .amount { color: #ffffff; font-family: ui-monospace, monospace; }
  .invoice-sheet .totals-tax .amount { font-family: ui-monospace, monospace; }
  .invoice-sheet .totals-divider { height: 1px; background: #334155; margin: 16px 0; }
  .invoice-sheet .totals-total { display: flex; justify-content: space-between; align-items: flex-end; }
  .invoice-sheet .totals-total-label { font-size: 14px; font-weight: 700; color: #cbd5e1; }
  .invoice-sheet .totals-total .amount { display: block; font-size: 30px; font-weight: 900; letter-spacing: -0.02em; }
  .invoice-sheet .totals-unit { font-size: 11px; color: #94a3b8; font-weight: 500; }
  .invoice-sheet .signature-area { background: #f8fafc; padding: 32px 48px; border-top: 1px solid #e2e8f0; display: grid; grid-template-columns: 1fr 1fr; gap: 96px; margin-top: auto; }
  .invoice-sheet .signature-box { height: 80px; border: 2px dashed #cbd5e1; border-radius: 8px; display: flex; align-items: center; justify-content: center; color: #cbd5e1; font-size: 12px; }
  .invoice-sheet .signature-caption { text-align: center; font-weight: 700; color: #334155; font-size: 13px; margin: 16px 0 0; }
  .invoice-sheet .footer-strip { padding: 12px; text-align: center; font-size: 10px; text-transform: uppercase; letter-spacing: 0.2em; font-weight: 500; }
  @media print { .invoice-sheet { width: 100%; } }
</style>
<div class="accent-bar" style="background: linear-gradient(90deg, {{.AccentBar.From}}, {{.AccentBar.Via}}, {{.AccentBar.To}});"></div>
<header class="sheet-header">
  <div>
    <div class="title-block">
      {{if .Header.Icon.Background -}}
      <span class="icon-wrap{{if .Header.Icon.Shadow}} icon-shadow{{end}}" style="background: {{.Header.Icon.Background}}; color: {{.Header.Icon.Foreground}}; border-radius: {{.Header.Icon.Radius}};">` + fileGlyph + `</span>
      {{- else -}}
      <span class="icon-bare" style="color: {{.Header.Icon.Foreground}};">` + fileGlyph + `</span>
      {{- end}}
      <h1 style="color: {{.Theme.HeaderTitle}};">{{.Header.Title}}</h1>
    </div>
    <p class="subtitle">{{.Header.Subtitle}}</p>
  </div>
  <div class="meta-card">
    <div class="meta-row"><span class="meta-label">{{.Labels.NumberLabel}}</span><span class="meta-value mono invoice-number">{{.Header.Number}}</span></div>
    <div class="meta-row"><span class="meta-label">{{.Labels.DateLabel}}</span><span class="meta-value invoice-date">{{.Header.Date}}</span></div>
  </div>
</header>
<div class="sheet-body">
  <section class="parties">
    <div class="party-panel party-seller" style="background: {{.Parties.Seller.Tint}}; border-color: {{.Parties.Seller.Border}};">
      <h3 class="party-heading" style="color: {{.Parties.Seller.HeadingColor}}; border-color: {{.Parties.Seller.Border}};">{{.Parties.Seller.Heading}}</h3>
      <p class="party-name">{{.Parties.Seller.Name}}</p>
      {{if .Parties.Seller.Detail}}<p class="party-detail" style="color: {{.Parties.Seller.HeadingColor}};">{{.Parties.Seller.Detail}}</p>{{end}}
      {{if .Parties.Seller.ContactLines}}<div class="party-contact">{{range .Parties.Seller.ContactLines}}<div>{{.}}</div>{{end}}</div>{{end}}
    </div>
    <div class="party-panel party-buyer" style="background: {{.Parties.Buyer.Tint}}; border-color: {{.Parties.Buyer.Border}};">
      <h3 class="party-heading" style="color: {{.Parties.Buyer.HeadingColor}}; border-color: {{.Parties.Buyer.Border}};">{{.Parties.Buyer.Heading}}</h3>
      <p class="party-name">{{.Parties.Buyer.Name}}</p>
      {{if .Parties.Buyer.Detail}}<p class="party-detail" style="color: #334155;">{{.Parties.Buyer.Detail}}</p>{{end}}
      {{if .Parties.Buyer.ContactLines}}<div class="party-contact">{{range .Parties.Buyer.ContactLines}}<div>{{.}}</div>{{end}}</div>{{end}}
    </div>
  </section>
  <section class="item-table-wrap">
    <table>
      <thead>
        <tr>
          <th style="width: 64px;">{{.Labels.ColIndex}}</th>
          <th>{{.Labels.ColItem}}</th>
          <th style="width: 96px;">{{.Labels.ColQuantity}}</th>
          <th style="width: 128px;">{{.Labels.ColUnitPrice}}</th>
          <th style="width: 160px; background: {{.Theme.TableHeadTotal}};">{{.Labels.ColLineTotal}}</th>
        </tr>
      </thead>
      <tbody>
        {{if .Items.Rows}}{{range .Items.Rows}}
        <tr class="item-row">
          <td class="row-index">{{.Index}}</td>
          <td><p class="item-title">{{.Title}}</p>{{if .Description}}<p class="item-description">{{.Description}}</p>{{end}}</td>
          <td class="cell-number">{{.Quantity}}</td>
          <td class="cell-number">{{.UnitPrice}}</td>
          <td class="cell-number line-total" style="color: {{$.Theme.LineEmphasis}}; background: {{$.Theme.LineEmphasisTint}}; font-weight: 700;">{{.LineTotal}}</td>
        </tr>
        {{end}}{{else}}
        <tr class="placeholder-row"><td colspan="5">{{.Items.Placeholder}}</td></tr>
        {{end}}
      </tbody>
    </table>
  </section>
  <section class="lower-grid">
    <div>
      {{if .Notes}}
      <div class="notes-panel">
        <h4 class="notes-heading">{{.Notes.Heading}}</h4>
        {{range .Notes.Lines}}<p>{{.}}</p>{{end}}
      </div>
      {{end}}
    </div>
    <div class="totals-panel">
      <div class="totals-row totals-subtotal"><span>{{.Totals.SubtotalLabel}}</span><span class="amount">{{.Totals.Subtotal}}</span></div>
      {{if .Totals.Tax}}
      <div class="totals-row totals-tax" style="color: {{.Theme.TaxLine}};"><span>{{.Totals.Tax.Label}}</span><span class="amount">{{.Totals.Tax.Amount}}</span></div>
      {{end}}
      <div class="totals-divider"></div>
      <div class="totals-total">
        <span class="totals-total-label">{{.Totals.TotalLabel}}</span>
        <span><span class="amount">{{.Totals.Total}}</span><span class="totals-unit">{{.Totals.Unit}}</span></span>
      </div>
    </div>
  </section>
</div>
<div class="signature-area">
  <div>
    <div class="signature-box">{{.Signature.Seller.Placeholder}}</div>
    <p class="signature-caption">{{.Signature.Seller.Caption}}</p>
  </div>
  <div>
    <div class="signature-box">{{.Signature.Buyer.Placeholder}}</div>
    <p class="signature-caption">{{.Signature.Buyer.Caption}}</p>
  </div>
</div>
<div class="footer-strip" style="background: {{.Theme.FooterBand}}; color: {{.Theme.FooterText}};">{{.Footer.Text}}</div>
</div>
`
