/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the PWA frontend

ROUTE GROUPS:
  /api/exercises/*      Exercise management, logging, derived views
  /api/quick            URL-parameter quick actions
  /api/export           Backup download
  /api/import           Backup restore
  /*                    Static files (PWA shell) when ./web exists

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", h.ListExercises)
			r.Post("/", h.CreateExercise)
			r.Get("/{id}", h.GetExercise)
			r.Put("/{id}", h.UpdateExercise)
			r.Delete("/{id}", h.DeleteExercise)
			r.Post("/{id}/log", h.LogExercise)
			r.Post("/{id}/target", h.AddTarget)
			r.Get("/{id}/stats", h.GetStats)
			r.Get("/{id}/history", h.GetHistory)
		})

		r.Get("/quick", h.QuickAction)
		r.Get("/export", h.ExportCollection)
		r.Post("/import", h.ImportCollection)
	})

	// Serve the PWA shell when a web build is present.
	staticDir := "./web"
	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Exercise Quota Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Exercise Quota Engine API</h1>
<p>No frontend build found in ./web.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/exercises">/api/exercises</a> - List exercises</li>
<li><a href="/api/quick?dec=10">/api/quick?dec=10</a> - Quick log</li>
<li><a href="/api/export">/api/export</a> - Download backup</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
