package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"activeresident/internal/auth"
	"activeresident/internal/live"
	obsmw "activeresident/internal/observability/middleware"
	"activeresident/internal/service"
)

type RouterConfig struct {
	Signer        *auth.Signer
	Resolver      auth.UserResolver
	Users         service.UserService
	Reports       service.ReportService
	Votes         service.VoteService
	Notifications service.NotificationService
	Hub           *live.Hub

	AllowedOrigins []string
	AuthRateLimit  int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(obsmw.WithMetrics)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	users := &userHandler{svc: cfg.Users}
	reports := &reportHandler{svc: cfg.Reports}
	votes := &voteHandler{svc: cfg.Votes}
	notifications := &notificationHandler{svc: cfg.Notifications}

	r.Route("/v1", func(r chi.Router) {
		// Credential endpoints are the brute-force surface; they get their
		// own per-IP limit. The websocket and timeout middlewares stay off
		// this group.
		r.Group(func(r chi.Router) {
			limit := cfg.AuthRateLimit
			if limit <= 0 {
				limit = 20
			}
			r.Use(httprate.LimitByIP(limit, 1*time.Minute))
			r.Post("/auth/signup", users.signup)
			r.Post("/auth/login", users.login)
			r.Post("/auth/refresh", users.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))
			r.Use(auth.RequireUser(cfg.Signer, cfg.Resolver))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", users.me)
				r.Patch("/", users.update)
				r.Delete("/", users.deactivate)
				r.Put("/password", users.changePassword)
				r.Patch("/address", users.updateAddress)
				r.Get("/settings", users.settings)
				r.Patch("/settings", users.updateSettings)
			})

			// Admin-only; the service layer rejects non-admin callers.
			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/", users.adminGet)
				r.Delete("/", users.adminDeactivate)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reports.feed)
				r.Post("/", reports.create)
				r.Get("/photos/{photoID}", reports.photo)
				r.Route("/{reportID}", func(r chi.Router) {
					r.Get("/", reports.get)
					r.Patch("/", reports.update)
					r.Patch("/admin", reports.adminUpdate)
					r.Delete("/", reports.delete)
					r.Route("/votes", func(r chi.Router) {
						r.Get("/", votes.get)
						r.Post("/", votes.create)
						r.Patch("/", votes.update)
						r.Delete("/", votes.delete)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notifications.list)
				r.Post("/{notificationID}/read", notifications.markRead)
				r.Delete("/{notificationID}", notifications.delete)
			})
		})
	})

	r.Get("/ws/reports", newWSHandler(cfg.Hub))

	return r
}
