package routes

import (
	"job-finder/internal/delivery/http/handler"
	"job-finder/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health          *handler.HealthHandler
	recommendations *handler.RecommendationHandler
	auth            *middleware.AuthMiddleware
}

func NewRegistry(recommendations *handler.RecommendationHandler, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{
		health:          handler.NewHealthHandler(),
		recommendations: recommendations,
		auth:            auth,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	if r.auth != nil {
		v1.Use(r.auth.Middleware())
	}
	r.recommendations.RegisterRoutes(v1)
}
