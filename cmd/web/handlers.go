package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"factorsaz.org/invoice-web/internal/content"
	"factorsaz.org/invoice-web/internal/export"
	"factorsaz.org/invoice-web/internal/invoice"
	mw "factorsaz.org/invoice-web/internal/middleware"
	"factorsaz.org/invoice-web/internal/render"
	"factorsaz.org/invoice-web/internal/store"
)

func buildPreviewHTML(data invoice.InvoiceData, lang string) (string, error) {
	doc, err := render.BuildDocument(data, documentLabels(lang))
	if err != nil {
		return "", err
	}
	return htmlRenderer.RenderHTML(doc)
}

func buildEditorView(r *http.Request, data invoice.InvoiceData) (EditorView, error) {
	lang := mw.Lang(r)
	preview, err := buildPreviewHTML(data, lang)
	if err != nil {
		return EditorView{}, err
	}
	return EditorView{
		Lang:        lang,
		Dir:         i18nBundle.Dir(lang),
		Title:       i18nBundle.T(lang, "app.title"),
		CSRFToken:   mw.GetSession(r).CSRFToken,
		Copy:        editorCopyFor(lang),
		Data:        data,
		Colors:      colorOptions(lang, data.Theme.Color),
		IconStyles:  iconStyleOptions(lang, data.Theme.IconStyle),
		PreviewHTML: preview,
		AIEnabled:   aiEnabled,
	}, nil
}

// EditorHandler serves the editor page, seeding a sample invoice on the
// first visit of a session.
func EditorHandler(w http.ResponseWriter, r *http.Request) {
	sid := mw.GetSession(r).ID
	data := invoiceStore.GetOrCreate(sid, invoice.Default)
	view, err := buildEditorView(r, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderPage(w, r, "editor", view)
}

// InvoiceUpdateHandler replaces the whole draft with the posted form and
// re-renders the editor.
func InvoiceUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data, err := invoiceFromForm(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sid := mw.GetSession(r).ID
	invoiceStore.Replace(sid, data)
	respondEditor(w, r, data)
}

// ItemAddHandler appends an empty row, keeping unsaved form edits.
func ItemAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data, err := invoiceFromForm(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	data = data.WithItemAppended(invoice.NewLineItem())
	sid := mw.GetSession(r).ID
	invoiceStore.Replace(sid, data)
	respondEditor(w, r, data)
}

// ItemRemoveHandler deletes the identified row. Removing an unknown row
// is a no-op and still re-renders.
func ItemRemoveHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data, err := invoiceFromForm(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	itemID := strings.TrimSpace(r.PostForm.Get("remove_id"))
	data = data.WithItemRemoved(itemID)
	sid := mw.GetSession(r).ID
	invoiceStore.Replace(sid, data)
	respondEditor(w, r, data)
}

func respondEditor(w http.ResponseWriter, r *http.Request, data invoice.InvoiceData) {
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view, err := buildEditorView(r, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "frag_editor", view)
}

// PreviewHandler serves the print-ready page holding only the sheet.
func PreviewHandler(w http.ResponseWriter, r *http.Request) {
	sid := mw.GetSession(r).ID
	data := invoiceStore.GetOrCreate(sid, invoice.Default)
	lang := mw.Lang(r)
	preview, err := buildPreviewHTML(data, lang)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderPage(w, r, "preview", PreviewView{
		Lang:        lang,
		Dir:         i18nBundle.Dir(lang),
		Title:       i18nBundle.T(lang, "doc.title") + " " + data.InvoiceNumber,
		BackLabel:   i18nBundle.T(lang, "editor.back"),
		PrintLabel:  i18nBundle.T(lang, "editor.print"),
		PreviewHTML: preview,
	})
}

// PreviewView is the standalone print page model.
type PreviewView struct {
	Lang        string
	Dir         string
	Title       string
	BackLabel   string
	PrintLabel  string
	PreviewHTML string
}

// ExportPDFHandler streams the current draft as an A4 PDF download.
func ExportPDFHandler(w http.ResponseWriter, r *http.Request) {
	sid := mw.GetSession(r).ID
	data := invoiceStore.GetOrCreate(sid, invoice.Default)
	doc, err := render.BuildDocument(data, documentLabels(mw.Lang(r)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := export.PDF(doc, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filename := "invoice.pdf"
	if data.InvoiceNumber != "" {
		filename = "invoice-" + data.InvoiceNumber + ".pdf"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// GuideHandler renders the localized help page.
func GuideHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	page, err := content.Load("guide", lang, i18nBundle.Fallback())
	if err != nil {
		http.NotFound(w, r)
		return
	}
	renderPage(w, r, "guide", GuideView{
		Lang:      page.Lang,
		Dir:       i18nBundle.Dir(page.Lang),
		Title:     page.Title,
		BackLabel: i18nBundle.T(lang, "editor.back"),
		Page:      page,
	})
}

// GuideView is the help page model.
type GuideView struct {
	Lang      string
	Dir       string
	Title     string
	BackLabel string
	Page      content.Page
}

// AssistantView models the assistant modal fragment.
type AssistantView struct {
	Lang        string
	Dir         string
	ItemID      string
	ItemTitle   string
	Prompt      string
	Error       string
	Enabled     bool
	CSRFToken   string
	Title       string
	PromptLabel string
	Placeholder string
	Generate    string
	Cancel      string
	Generating  string
	Disabled    string
}

func assistantViewFor(r *http.Request, itemID, prompt, errMsg string) AssistantView {
	lang := mw.Lang(r)
	t := func(key string) string { return i18nBundle.T(lang, key) }
	view := AssistantView{
		Lang:        lang,
		Dir:         i18nBundle.Dir(lang),
		ItemID:      itemID,
		Prompt:      prompt,
		Error:       errMsg,
		Enabled:     aiEnabled,
		CSRFToken:   mw.GetSession(r).CSRFToken,
		Title:       t("assistant.title"),
		PromptLabel: t("assistant.prompt_label"),
		Placeholder: t("assistant.prompt_placeholder"),
		Generate:    t("assistant.generate"),
		Cancel:      t("assistant.cancel"),
		Generating:  t("assistant.generating"),
		Disabled:    t("assistant.disabled"),
	}
	sid := mw.GetSession(r).ID
	if data, err := invoiceStore.Get(sid); err == nil {
		if item, ok := data.ItemByID(itemID); ok {
			view.ItemTitle = item.Title
		}
	}
	return view
}

// AssistantModalFrag opens the prompt dialog for one line item.
func AssistantModalFrag(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(r.URL.Query().Get("item"))
	if itemID == "" {
		http.Error(w, "missing item id", http.StatusBadRequest)
		return
	}
	renderTemplate(w, r, "frag_assistant", assistantViewFor(r, itemID, "", ""))
}

// AssistantGenerateHandler runs one generation against the targeted item.
// The result applies only if the item still exists and no newer request
// superseded this one; stale results are dropped without an error.
func AssistantGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	itemID := strings.TrimSpace(r.PostForm.Get("item_id"))
	prompt := r.PostForm.Get("prompt")
	if itemID == "" {
		http.Error(w, "missing item id", http.StatusBadRequest)
		return
	}
	if !aiEnabled {
		renderTemplate(w, r, "frag_assistant", assistantViewFor(r, itemID, prompt, i18nBundle.T(lang, "assistant.disabled")))
		return
	}
	if strings.TrimSpace(prompt) == "" {
		renderTemplate(w, r, "frag_assistant", assistantViewFor(r, itemID, prompt, i18nBundle.T(lang, "assistant.empty_prompt")))
		return
	}

	sid := mw.GetSession(r).ID
	token, err := invoiceStore.BeginGeneration(sid, itemID)
	if err != nil {
		msg := i18nBundle.T(lang, "assistant.error")
		if errors.Is(err, store.ErrGenerationPending) {
			msg = i18nBundle.T(lang, "assistant.pending")
		}
		renderTemplate(w, r, "frag_assistant", assistantViewFor(r, itemID, prompt, msg))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), aiTimeout)
	defer cancel()
	result, err := generator.Generate(ctx, prompt)
	if err != nil {
		invoiceStore.FailGeneration(sid, token)
		renderTemplate(w, r, "frag_assistant", assistantViewFor(r, itemID, prompt, i18nBundle.T(lang, "assistant.error")))
		return
	}

	// a false return means the result went stale; nothing to report
	invoiceStore.ApplyGeneration(sid, token, result)

	data := invoiceStore.GetOrCreate(sid, invoice.Default)
	view, err := buildEditorView(r, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("HX-Retarget", "#editor-root")
	w.Header().Set("HX-Reswap", "outerHTML")
	renderTemplate(w, r, "frag_editor", view)
	// close the dialog alongside the editor swap
	_, _ = w.Write([]byte(`<div id="assistant-modal" hx-swap-oob="outerHTML"></div>`))
}

// AssistantCancelHandler invalidates the pending request and closes the
// dialog. A late result with the cancelled token is discarded.
func AssistantCancelHandler(w http.ResponseWriter, r *http.Request) {
	sid := mw.GetSession(r).ID
	invoiceStore.CancelGeneration(sid)
	renderTemplate(w, r, "frag_assistant_closed", nil)
}
