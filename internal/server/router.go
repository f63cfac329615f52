// Package server assembles the HTTP routes.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tyrecheck/tyrecheck-go/internal/config"
	"github.com/tyrecheck/tyrecheck-go/internal/handler"
	"github.com/tyrecheck/tyrecheck-go/internal/middleware"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services the routes dispatch to.
type Deps struct {
	Logger   *slog.Logger
	DB       Pinger
	Registry *prometheus.Registry
	Auth     *service.AuthService
	Claims   *service.ClaimService
	Dealers  *service.DealerService
	Summary  *service.SummaryService
	Uploads  *service.UploadService
}

// NewRouter builds the HTTP handler. Health and metrics live at the root;
// everything else is mounted under cfg.APIPrefix, and every route there
// except signup and login requires a bearer token.
func NewRouter(cfg config.Config, d Deps) http.Handler {
	metrics := middleware.NewMetrics(d.Registry)

	authHandler := handler.NewAuthHandler(d.Auth)
	claimHandler := handler.NewClaimHandler(d.Claims)
	dealerHandler := handler.NewDealerHandler(d.Dealers)
	summaryHandler := handler.NewSummaryHandler(d.Summary)
	uploadHandler := handler.NewUploadHandler(d.Uploads, cfg.Upload.MaxBytes)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/health/ready", readyHandler(d.DB))
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/"
	}

	r.Route(prefix, func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst))
			r.Post("/user_create", authHandler.HandleRegister)
			r.Post("/user_login", authHandler.HandleLogin)
			r.Post("/user/user_create", authHandler.HandleRegister)
			r.Post("/user/user_login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Auth))

			r.Get("/me", authHandler.HandleMe)

			r.Post("/claim/details", claimHandler.HandleListClaims)
			r.Post("/claim/export_pdf", claimHandler.HandleExport)
			r.Get("/viewClaim/Claim_ID=*", claimHandler.HandleGetClaim)
			r.Post("/viewClaim/updateClaimResult", claimHandler.HandleUpdateClaim)

			r.Get("/dealers", dealerHandler.HandleListDealers)

			r.Post("/summary/summary_report", summaryHandler.HandleSummaryReport)
			r.Post("/summary/ai_summary", summaryHandler.HandleAISummary)

			r.Post("/upload-image", uploadHandler.HandleUpload)
		})
	})

	return r
}

func readyHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.Error(w, "database not configured", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	}
}
