package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"travgram/internal/currency"
	mw "travgram/internal/middleware"
	"travgram/internal/session"
	"travgram/internal/tips"
)

type RouterOptions struct {
	Sessions    *session.Manager
	Logger      *zap.Logger
	Rates       currency.Table
	Tips        tips.Catalog
	CORSOrigins []string
	// Debug mounts the unauthenticated admin routes.
	Debug bool
}

func NewRouter(opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(log))
	r.Use(mw.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := NewAuthHandler(opts.Sessions, log)
	userHandler := NewUserHandler(opts.Sessions, log)
	tripHandler := NewTripHandler(opts.Sessions, log)
	placeHandler := NewPlaceHandler(opts.Sessions, log)
	dashboardHandler := NewDashboardHandler(opts.Sessions, opts.Rates, opts.Tips, log)
	authMW := mw.NewAuthMiddleware(opts.Sessions)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/password-reset", authHandler.PasswordReset)
		api.Get("/tips", dashboardHandler.Tips)
		api.Get("/trip-types", dashboardHandler.TripTypes)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Post("/auth/logout", authHandler.Logout)
			pr.Get("/me", userHandler.GetMe)
			pr.Put("/me", userHandler.UpdateMe)
			pr.Get("/me/profile-image", userHandler.GetProfileImage)
			pr.Get("/places", placeHandler.Search)
			pr.Get("/trips", tripHandler.List)
			pr.Post("/trips", tripHandler.Create)
			pr.Put("/trips/{id}", tripHandler.Update)
			pr.Delete("/trips/{id}", tripHandler.Delete)
			pr.Post("/trips/{id}/photos", tripHandler.AddPhoto)
			pr.Get("/trips/{id}/photos/{photoID}", tripHandler.GetPhoto)
			pr.Delete("/trips/{id}/photos/{photoID}", tripHandler.DeletePhoto)
			pr.Get("/stats", dashboardHandler.Stats)
		})

		if opts.Debug {
			api.Delete("/admin/users", NewAdminHandler(opts.Sessions, log).DeleteAllUsers)
		}
	})
	return r
}
