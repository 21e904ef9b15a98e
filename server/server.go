// Package server exposes the layout engine over HTTP with fiber.
//
// Routes:
//
//	POST /paginate        layout + data -> JSON pages
//	POST /render          layout + data -> application/pdf
//	POST /check           layout -> invariant report
//	GET  /templates/:name built-in layout document
//	GET  /health/live, /health/ready
package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/render"
)

// New builds the fiber application with middleware and routes.
func New(cfg *Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		AppName:      "Layout Service",
	})

	app.Use(recover.New())
	if cfg.Environment != "test" {
		app.Use(Logger())
	}

	h := &handlers{
		layout: pagelayout.NewConfig(cfg.LayoutOptions()...),
		images: render.WithoutFileImages(),
	}
	if cfg.ImageDir != "" {
		h.images = render.WithImageRoot(cfg.ImageDir)
	}

	app.Get("/health/live", LivenessProbe)
	app.Get("/health/ready", ReadinessProbe)

	app.Get("/templates/:name", h.template)
	app.Post("/paginate", h.paginate)
	app.Post("/render", h.render)
	app.Post("/check", h.check)

	return app
}

// Logger returns the request logging middleware.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// LivenessProbe reports that the process is up.
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessProbe reports that the service accepts requests.
func ReadinessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ready"})
}
