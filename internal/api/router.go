package api

import (
	"net/http"
	"time"

	"podium/internal/api/handler"
	"podium/internal/api/middleware"
	"podium/internal/app/service"
	"podium/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	contestService *service.ContestService,
	scoreboardService *service.ScoreboardService,
	rescoreService *service.RescoreService,
	judgeResultService *service.JudgeResultService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present and puts claims in context.
	// Whether a token is required is decided per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		contestHandler := handler.NewContestHandler(contestService, rescoreService)
		v1.Route("/contests", func(cr chi.Router) {
			contestHandler.RegisterRoutes(cr)

			scoreboardHandler := handler.NewScoreboardHandler(scoreboardService)
			scoreboardHandler.RegisterRoutes(cr)
		})

		participationHandler := handler.NewParticipationHandler(contestService, scoreboardService)
		v1.Route("/participations", participationHandler.RegisterRoutes)

		webhookHandler := handler.NewWebhookHandler(judgeResultService)
		v1.Route("/webhook", func(wr chi.Router) {
			wr.Use(middleware.Authenticator)
			wr.Use(middleware.JudgeOnly)
			webhookHandler.RegisterRoutes(wr)
		})
	})

	return r
}
