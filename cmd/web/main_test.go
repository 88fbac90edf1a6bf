package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"factorsaz.org/invoice-web/internal/ai"
	"factorsaz.org/invoice-web/internal/i18n"
	"factorsaz.org/invoice-web/internal/invoice"
	mw "factorsaz.org/invoice-web/internal/middleware"
	"factorsaz.org/invoice-web/internal/render"
	"factorsaz.org/invoice-web/internal/store"
)

type fakeGenerator struct {
	fn func(ctx context.Context, prompt string) (invoice.GeneratedContent, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
	return f.fn(ctx, prompt)
}

// newTestServer builds the app like main() with an injected generator.
func newTestServer(t *testing.T, gen ai.Generator) (*httptest.Server, *http.Client) {
	t.Helper()
	var err error
	i18nBundle, err = i18n.Load("fa")
	if err != nil {
		t.Fatalf("load i18n: %v", err)
	}
	tmplCache, err = parseTemplates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	invoiceStore = store.New()
	htmlRenderer = render.NewRenderer()
	aiTimeout = 5 * time.Second
	if gen != nil {
		generator = gen
		aiEnabled = true
	} else {
		generator = &fakeGenerator{fn: func(context.Context, string) (invoice.GeneratedContent, error) {
			return invoice.GeneratedContent{}, errors.New("no generator configured")
		}}
		aiEnabled = false
	}
	mw.Configure("test-signing-key", false)

	srv := httptest.NewServer(newRouter())
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}
	return srv, client
}

func get(t *testing.T, client *http.Client, base, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(base + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func csrfToken(t *testing.T, client *http.Client, base string) string {
	t.Helper()
	u, _ := url.Parse(base)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	t.Fatal("csrf cookie not set; GET a page first")
	return ""
}

func postForm(t *testing.T, client *http.Client, base, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	form.Set("csrf_token", csrfToken(t, client, base))
	req, err := http.NewRequest(http.MethodPost, base+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

// invoiceForm is a complete editor form with one known line item.
func invoiceForm() url.Values {
	return url.Values{
		"invoice_number":   {"2608-5555"},
		"date":             {"2026/08/31"},
		"seller_name":      {"Sara Ahmadi"},
		"customer_name":    {"Acme Ltd"},
		"tax_rate":         {"9"},
		"note":             {"Payment within 7 days"},
		"theme_color":      {"indigo"},
		"theme_icon":       {"modern"},
		"item_id":          {"item-1"},
		"item_title":       {"Logo design"},
		"item_description": {"Brand identity"},
		"item_quantity":    {"2"},
		"item_price":       {"1000000"},
	}
}

func TestHealthzOK(t *testing.T) {
	srv, client := newTestServer(t, nil)
	resp, body := get(t, client, srv.URL, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.TrimSpace(body) != "ok" {
		t.Fatalf("expected body 'ok', got %q", body)
	}
}

func TestEditorPageSeedsSampleInvoice(t *testing.T) {
	srv, client := newTestServer(t, nil)
	resp, body := get(t, client, srv.URL, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "invoice-sheet") {
		t.Fatal("expected rendered preview in editor page")
	}
	// default draft carries the Persian sample item
	if !strings.Contains(body, "طراحی رابط کاربری") {
		t.Fatal("expected seeded sample line item")
	}
	if !strings.Contains(body, "5,000,000") {
		t.Fatal("expected grouped sample amount")
	}
}

func TestEditorLocaleOverride(t *testing.T) {
	srv, client := newTestServer(t, nil)
	resp, body := get(t, client, srv.URL, "/?hl=en")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Edit invoice") {
		t.Fatal("expected English editor copy with hl=en")
	}
	if got := resp.Header.Get("Content-Language"); got != "en" {
		t.Fatalf("expected Content-Language en, got %q", got)
	}
}

func TestInvoiceUpdateReplacesDraft(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")

	resp, body := postForm(t, client, srv.URL, "/invoice", invoiceForm())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "2,000,000") {
		t.Fatal("expected updated line total in preview")
	}
	// subtotal 2,000,000 with 9% tax
	if !strings.Contains(body, "+180,000") {
		t.Fatal("expected tax amount in preview")
	}
	if !strings.Contains(body, "2,180,000") {
		t.Fatal("expected grand total in preview")
	}

	// the replacement persists across requests
	_, page := get(t, client, srv.URL, "/")
	if !strings.Contains(page, "Logo design") {
		t.Fatal("expected updated draft on reload")
	}
}

func TestInvoiceUpdateRejectsUnknownTheme(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")

	form := invoiceForm()
	form.Set("theme_color", "magenta")
	resp, _ := postForm(t, client, srv.URL, "/invoice", form)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown color, got %d", resp.StatusCode)
	}
}

// ParseFloat accepts "NaN" and "Inf"; none of them may reach the draft.
func TestReadFloatCoercesNonFinite(t *testing.T) {
	cases := map[string]float64{
		"2.5":      2.5,
		"1000000":  1000000,
		"":         0,
		"abc":      0,
		"NaN":      0,
		"nan":      0,
		"Inf":      0,
		"+Inf":     0,
		"-Inf":     0,
		"Infinity": 0,
	}
	for in, want := range cases {
		if got := readFloat(in); got != want {
			t.Errorf("readFloat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInvoiceUpdateCoercesNonFiniteInput(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")

	form := invoiceForm()
	form.Set("tax_rate", "NaN")
	form.Set("item_quantity", "+Inf")
	resp, body := postForm(t, client, srv.URL, "/invoice", form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "NaN") {
		t.Fatal("non-finite input must not reach the rendered totals")
	}
	// both fields coerce to 0: no tax row, zero line total
	if strings.Contains(body, "totals-tax") {
		t.Fatal("expected no tax row for coerced rate")
	}
	if strings.Contains(body, "2,000,000") {
		t.Fatal("expected coerced quantity to zero the line total")
	}
}

func TestInvoiceUpdateRequiresCSRF(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/invoice", strings.NewReader(invoiceForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", resp.StatusCode)
	}
}

func TestItemAddAndRemove(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")

	resp, body := postForm(t, client, srv.URL, "/items/add", invoiceForm())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := strings.Count(body, `name="item_id"`); got != 2 {
		t.Fatalf("expected 2 item rows after add, got %d", got)
	}

	form := invoiceForm()
	form.Set("remove_id", "item-1")
	resp, body = postForm(t, client, srv.URL, "/items/remove", form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "Logo design") {
		t.Fatal("expected removed item to disappear")
	}
	if !strings.Contains(body, "placeholder-row") {
		t.Fatal("expected placeholder row once all items are removed")
	}

	// removing an unknown id is a no-op
	form = invoiceForm()
	form.Set("remove_id", "missing")
	resp, body = postForm(t, client, srv.URL, "/items/remove", form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Logo design") {
		t.Fatal("expected item to survive removal of unknown id")
	}
}

func TestAssistantAppliesToTargetedItem(t *testing.T) {
	gen := &fakeGenerator{fn: func(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
		return invoice.GeneratedContent{Title: "Brand package", Description: "Logo, palette and typography"}, nil
	}}
	srv, client := newTestServer(t, gen)
	get(t, client, srv.URL, "/")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	resp, body := postForm(t, client, srv.URL, "/assistant/generate", url.Values{
		"item_id": {"item-1"},
		"prompt":  {"design a brand package"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Brand package") {
		t.Fatal("expected generated title in editor response")
	}
	if resp.Header.Get("HX-Retarget") != "#editor-root" {
		t.Fatal("expected retarget to the editor after apply")
	}

	_, page := get(t, client, srv.URL, "/")
	if !strings.Contains(page, "Brand package") || !strings.Contains(page, "Logo, palette and typography") {
		t.Fatal("expected generated content persisted on the item")
	}
}

func TestAssistantStaleResultDiscarded(t *testing.T) {
	var (
		srv    *httptest.Server
		client *http.Client
	)
	gen := &fakeGenerator{}
	gen.fn = func(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
		// the targeted item is deleted while generation is in flight
		form := invoiceForm()
		form.Del("item_id")
		form.Del("item_title")
		form.Del("item_description")
		form.Del("item_quantity")
		form.Del("item_price")
		postForm(t, client, srv.URL, "/invoice", form)
		return invoice.GeneratedContent{Title: "Too late"}, nil
	}
	srv, client = newTestServer(t, gen)
	get(t, client, srv.URL, "/")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	resp, _ := postForm(t, client, srv.URL, "/assistant/generate", url.Values{
		"item_id": {"item-1"},
		"prompt":  {"anything"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 even when the result is stale, got %d", resp.StatusCode)
	}

	_, page := get(t, client, srv.URL, "/")
	if strings.Contains(page, "Too late") {
		t.Fatal("stale generation result must not be applied")
	}
}

func TestAssistantErrorKeepsPrompt(t *testing.T) {
	gen := &fakeGenerator{fn: func(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
		return invoice.GeneratedContent{}, ai.ErrGenerationFailed
	}}
	srv, client := newTestServer(t, gen)
	get(t, client, srv.URL, "/?hl=en")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	resp, body := postForm(t, client, srv.URL, "/assistant/generate", url.Values{
		"item_id": {"item-1"},
		"prompt":  {"design a logo"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with inline error, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "design a logo") {
		t.Fatal("expected the prompt preserved for retry")
	}
	if !strings.Contains(body, "Generation failed") {
		t.Fatal("expected localized error message")
	}

	// the failed call does not block a retry
	gen.fn = func(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
		return invoice.GeneratedContent{Title: "Second try"}, nil
	}
	_, body = postForm(t, client, srv.URL, "/assistant/generate", url.Values{
		"item_id": {"item-1"},
		"prompt":  {"design a logo"},
	})
	if !strings.Contains(body, "Second try") {
		t.Fatal("expected retry to succeed after failure")
	}
}

func TestAssistantEmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{fn: func(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
		t.Fatal("generator must not be called for an empty prompt")
		return invoice.GeneratedContent{}, nil
	}}
	srv, client := newTestServer(t, gen)
	get(t, client, srv.URL, "/?hl=en")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	resp, body := postForm(t, client, srv.URL, "/assistant/generate", url.Values{
		"item_id": {"item-1"},
		"prompt":  {"   "},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Write your request first") {
		t.Fatal("expected empty-prompt message")
	}
}

func TestAssistantDisabledWithoutKey(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/?hl=en")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	_, body := postForm(t, client, srv.URL, "/assistant/generate", url.Values{
		"item_id": {"item-1"},
		"prompt":  {"design a logo"},
	})
	if !strings.Contains(body, "not configured") {
		t.Fatal("expected disabled message when no API key is set")
	}
}

func TestAssistantCancel(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")

	resp, body := postForm(t, client, srv.URL, "/assistant/cancel", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `id="assistant-modal"`) {
		t.Fatal("expected empty modal container")
	}
}

func TestPreviewPage(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	resp, body := get(t, client, srv.URL, "/preview")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "invoice-sheet") {
		t.Fatal("expected the sheet on the print page")
	}
	if !strings.Contains(body, "2608-5555") {
		t.Fatal("expected current draft number on the print page")
	}
}

func TestExportPDF(t *testing.T) {
	srv, client := newTestServer(t, nil)
	get(t, client, srv.URL, "/")
	postForm(t, client, srv.URL, "/invoice", invoiceForm())

	resp, body := get(t, client, srv.URL, "/export/pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "invoice-2608-5555.pdf") {
		t.Fatalf("expected draft number in filename, got %q", resp.Header.Get("Content-Disposition"))
	}
	if !strings.HasPrefix(body, "%PDF-") {
		t.Fatal("expected PDF payload")
	}
}

func TestGuidePage(t *testing.T) {
	srv, client := newTestServer(t, nil)
	resp, body := get(t, client, srv.URL, "/guide?hl=en")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "User guide") {
		t.Fatal("expected guide title")
	}
	if !strings.Contains(body, "<h2") {
		t.Fatal("expected rendered markdown sections")
	}
}
