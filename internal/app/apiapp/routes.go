package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/infra/metrics"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
	candidatesvc "github.com/ivankudzin/matchdeck/internal/services/candidates"
	matchsvc "github.com/ivankudzin/matchdeck/internal/services/matches"
	profilesvc "github.com/ivankudzin/matchdeck/internal/services/profiles"
	ratesvc "github.com/ivankudzin/matchdeck/internal/services/rate"
	swipesvc "github.com/ivankudzin/matchdeck/internal/services/swipes"
	"github.com/ivankudzin/matchdeck/internal/transport/http/handlers"
)

type Dependencies struct {
	JWT        *authsvc.JWTManager
	Profiles   *profilesvc.Service
	Candidates *candidatesvc.Service
	Swipes     *swipesvc.Service
	Matches    *matchsvc.Service
	Limiter    *ratesvc.Limiter
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	profileHandler := handlers.NewProfileHandler(deps.Profiles, deps.Logger)
	candidateHandler := handlers.NewCandidateHandler(deps.Candidates, deps.Logger)
	swipeHandler := handlers.NewSwipeHandler(deps.Swipes, deps.Limiter, deps.Logger)
	matchesHandler := handlers.NewMatchesHandler(deps.Matches, deps.Logger)
	authMW := AuthMiddleware(deps.JWT, deps.Logger)

	r.Get("/healthz", handlers.Health)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
		r.Get("/candidates", candidateHandler.List)
		r.Post("/swipes", swipeHandler.Handle)
		r.Get("/matches", matchesHandler.List)
	})
}
