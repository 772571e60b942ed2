package transporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	"github.com/notifycsc/notify-csc/internal/http/handlers"
	"github.com/notifycsc/notify-csc/internal/middleware"
)

// Deps bundles feature handlers that implement handlers.Mountable.
type Deps struct {
	// Public handlers are reachable without a token.
	Public []handlers.Mountable
	// Private handlers sit behind RequireAuth.
	Private []handlers.Mountable
	Auth    middleware.Authenticator
	// Health is mounted at the root (/health, /readyz).
	Health http.Handler

	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(d.AllowedOrigins))
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	if d.Health != nil {
		r.Mount("/", d.Health)
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/doc.json", swaggerDoc)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetJSONContentType)
		r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))

		for _, m := range d.Public {
			m.Mount(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Auth))
			for _, m := range d.Private {
				m.Mount(r)
			}
		})
	})

	return r
}

func swaggerDoc(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "swagger document unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
