package app

import (
	"fmt"
	"strings"

	"job-finder/internal/delivery/http/handler"
	"job-finder/internal/delivery/http/middleware"
	"job-finder/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())

	accessLog := middleware.NewAccessLogMiddleware(c.Logger)
	app.Use(accessLog.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	recHandler := handler.NewRecommendationHandler(c.Recommendations, c.Trigger)
	authMw := middleware.NewAuthMiddleware(c.JWT)

	routes.NewRegistry(recHandler, authMw).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
