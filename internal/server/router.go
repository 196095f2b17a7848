// Package server wires the stores, services and handlers into one
// http.Handler.
package server

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/i18n"
	"github.com/facio/facio/internal/handlers"
	"github.com/facio/facio/internal/middleware"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/internal/store"
)

// Deps are the collaborators New needs. Backend, Renderer and Stamper are
// required.
type Deps struct {
	Backend    store.Backend
	Renderer   services.DocumentRenderer
	Stamper    handlers.Stamper
	Outputs    handlers.Outputs
	MaxClients int
	MaxHistory int
	// StaticDir holds the built web client; empty serves a placeholder page.
	StaticDir string
	// Ping reports backend health for /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
	// DefaultLang applies to requests without any language hint.
	DefaultLang string
	Now         func() time.Time
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	opts := []store.ClientOption{store.WithClock(now)}
	if d.MaxClients > 0 {
		opts = append(opts, store.WithMaxClients(d.MaxClients))
	}
	clients := store.NewClientStore(d.Backend, opts...)
	history := store.NewHistoryStore(d.Backend, d.MaxHistory)
	settings := services.NewSettingsService(d.Backend)
	transfer := services.NewClientTransfer(clients)
	exporter := services.NewInvoiceExporter(d.Renderer, settings, clients, history)

	ih := handlers.NewInvoiceHandler(exporter, settings, d.Outputs)
	sh := handlers.NewStampHandler(d.Stamper, settings, d.Outputs)
	ch := handlers.NewClientHandler(clients, transfer)
	hh := handlers.NewHistoryHandler(history)
	seth := handlers.NewSettingsHandler(settings)
	ih.Now, sh.Now, ch.Now = now, now, now

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ping != nil {
			if err := d.Ping(r.Context()); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// invoices
	mux.HandleFunc("POST /api/invoices/totals", ih.Totals)
	mux.HandleFunc("POST /api/invoices/pdf", ih.PDF)
	mux.HandleFunc("GET /api/invoices/next-number", ih.NextNumber)

	// stamping
	mux.HandleFunc("POST /api/stamp", sh.Stamp)
	mux.HandleFunc("POST /api/stamp/preview", sh.Preview)

	// clients
	mux.HandleFunc("GET /api/clients", ch.List)
	mux.HandleFunc("POST /api/clients", ch.Upsert)
	mux.HandleFunc("DELETE /api/clients", ch.Clear)
	mux.HandleFunc("DELETE /api/clients/{id}", ch.Remove)
	mux.HandleFunc("GET /api/clients/export", ch.Export)
	mux.HandleFunc("POST /api/clients/import", ch.Import)

	// history
	mux.HandleFunc("GET /api/history", hh.List)
	mux.HandleFunc("DELETE /api/history", hh.Clear)
	mux.HandleFunc("GET /api/history/last", hh.Last)

	// settings
	mux.HandleFunc("GET /api/settings", seth.Get)
	mux.HandleFunc("PUT /api/settings", seth.Update)

	mux.Handle("GET /", spa(d.StaticDir))

	lang := d.DefaultLang
	if lang == "" {
		lang = i18n.DefaultLang
	}
	return middleware.PrefsWithDefault(lang)(mux)
}

// spa serves files from dir and index.html for every other path, so client
// side routes survive a reload.
func spa(dir string) http.Handler {
	if dir == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isAPI(r.URL.Path) {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(placeholderPage))
		})
	}
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPI(r.URL.Path) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}

func isAPI(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

const placeholderPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Facio</title></head>
<body><h1>Facio</h1><p>The API is running, but the web client was not found.
Set STATIC_DIR to the folder containing index.html.</p></body></html>
`
