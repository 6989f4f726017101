/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind a proxy
  3. Logger:     Structured request logging (zap)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Metrics:    Prometheus request counters, keyed by route pattern
  6. CORS:       Cross-origin requests for the calculator frontend

ROUTE GROUPS:
  /api/*                Public calculators and parameters
  /api/admin/login      Token issue
  /api/admin/*          Parameter management, stats, presets (bearer token)
  /metrics              Prometheus scrape endpoint
  /*                    Static files (frontend)

STATIC FILE SERVING:
  Serves the built frontend from server.static_dir when it exists.
  Falls back to index.html for client-side routing.

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: RequireAdmin
  - cmd/hukuk/serve.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the router settings that come from the config file.
type RouterConfig struct {
	AllowedOrigins []string
	StaticDir      string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, rc RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	origins := rc.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/calculator-parameters", h.ListPublicParameters)
		r.Post("/calculate-compensation", h.CalculateCompensation)
		r.Post("/calculate-sentence", h.CalculateSentence)
		r.Post("/calculate-execution", h.CalculateSentence)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.Auth.RequireAdmin)

				r.Get("/me", h.Me)
				r.Get("/stats", h.Stats)

				r.Route("/calculator-parameters", func(r chi.Router) {
					r.Get("/", h.ListParameters)
					r.Post("/", h.CreateParameter)
					r.Post("/reset", h.ResetParameters)
					r.Put("/{id}", h.UpdateParameter)
					r.Delete("/{id}", h.DeleteParameter)
				})

				r.Route("/presets", func(r chi.Router) {
					r.Get("/", h.ListPresets)
					r.Get("/current", h.GetCurrentPreset)
					r.Post("/load", h.LoadPreset)
				})
			})
		})
	})

	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())

	// Serve static files (frontend)
	staticDir := rc.StaticDir
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			staticDir = ""
		}
	}

	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))

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
<head><title>Hukuk Hesaplama Motoru</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Hukuk Hesaplama Motoru API</h1>
<p>The frontend is not deployed. Set <code>server.static_dir</code> to a built frontend.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/health">/api/health</a> - Health and active preset</li>
<li><a href="/api/calculator-parameters">/api/calculator-parameters</a> - Active parameters</li>
<li>POST /api/calculate-compensation - Severance, notice, overtime, vacation</li>
<li>POST /api/calculate-sentence - Sentence execution breakdown</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", routePattern(r)),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// routePattern returns the matched chi pattern, so /api/x/{id} is one series.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
