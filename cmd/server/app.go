package main

import (
	"log"
	"net/http"
	"time"

	"github.com/facio/facio/internal/config"
	"github.com/facio/facio/internal/handlers"
	"github.com/facio/facio/internal/pdf"
	"github.com/facio/facio/internal/server"
)

// buildHandler assembles the API and the web client for one storage backend.
func buildHandler(cfg *config.Config, storage *server.Storage, outputs handlers.Outputs) http.Handler {
	return server.New(server.Deps{
		Backend:     storage.Backend,
		Renderer:    pdf.NewRenderer(),
		Stamper:     pdf.NewStamper(),
		Outputs:     outputs,
		StaticDir:   server.ResolveStaticDir(cfg),
		Ping:        storage.Ping,
		DefaultLang: cfg.App.DefaultLang,
	})
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
