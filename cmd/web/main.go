package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"factorsaz.org/invoice-web/internal/ai"
	"factorsaz.org/invoice-web/internal/config"
	"factorsaz.org/invoice-web/internal/i18n"
	mw "factorsaz.org/invoice-web/internal/middleware"
	"factorsaz.org/invoice-web/internal/render"
	"factorsaz.org/invoice-web/internal/store"
)

// process-wide dependencies, wired in main and shared by the handlers
var (
	i18nBundle   *i18n.Bundle
	invoiceStore *store.Store
	generator    ai.Generator
	htmlRenderer *render.HTMLRenderer
	aiEnabled    bool
	aiTimeout    = 20 * time.Second
)

func main() {
	cfg := config.Load()

	var err error
	i18nBundle, err = i18n.Load(cfg.App.DefaultLocale)
	if err != nil {
		log.Fatalf("load i18n: %v", err)
	}
	tmplCache, err = parseTemplates()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	invoiceStore = store.New()
	htmlRenderer = render.NewRenderer()
	generator = ai.NewClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
	aiEnabled = cfg.AssistantEnabled()
	if cfg.AI.Timeout > 0 {
		aiTimeout = cfg.AI.Timeout
	}
	if !aiEnabled {
		log.Printf("assistant disabled: no AI_API_KEY configured")
	}

	mw.Configure(cfg.App.SessionKey, cfg.App.Env == "production")

	r := newRouter()
	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("web listening on %s", cfg.App.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %v", err)
	}
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.CSRF)
	r.Use(mw.VaryLocale)
	r.Use(mw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", EditorHandler)
	r.Post("/invoice", InvoiceUpdateHandler)
	r.Post("/items/add", ItemAddHandler)
	r.Post("/items/remove", ItemRemoveHandler)
	r.Get("/preview", PreviewHandler)
	r.Get("/export/pdf", ExportPDFHandler)
	r.Get("/guide", GuideHandler)

	r.Get("/assistant", AssistantModalFrag)
	r.Post("/assistant/generate", AssistantGenerateHandler)
	r.Post("/assistant/cancel", AssistantCancelHandler)

	return r
}
