package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/romatertia749-eng/StudNet/internal/config"
	authsvc "github.com/romatertia749-eng/StudNet/internal/services/auth"
	feedsvc "github.com/romatertia749-eng/StudNet/internal/services/feed"
	matchessvc "github.com/romatertia749-eng/StudNet/internal/services/matches"
	profilesvc "github.com/romatertia749-eng/StudNet/internal/services/profiles"
	swipesvc "github.com/romatertia749-eng/StudNet/internal/services/swipes"
	"github.com/romatertia749-eng/StudNet/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	ProfileService *profilesvc.Service
	FeedService    *feedsvc.Service
	SwipeService   *swipesvc.Service
	MatchService   *matchessvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	likesHandler := handlers.NewLikesHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/telegram", authHandler.Telegram)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", profileHandler.Upsert)
		r.Get("/", feedHandler.Candidates)
		r.Get("/check/{user_id}", profileHandler.Check)
		r.Get("/incoming-likes", feedHandler.IncomingLikes)
		r.Get("/user/{user_id}", profileHandler.ByUser)
		r.Get("/{profile_id}", profileHandler.ByID)
		r.Post("/{profile_id}/like", swipeHandler.Like)
		r.Post("/{profile_id}/pass", swipeHandler.Pass)
	})

	r.With(authMW).Post("/likes/respond", likesHandler.Respond)
	r.With(authMW).Get("/matches", matchesHandler.List)
}
