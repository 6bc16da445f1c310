// Command doorpreview serves door previews over HTTP. POST a door config
// to /door, then fetch /door.glb, /door.stl, /door.png or /door/elevation.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/soypat/door"
	"github.com/soypat/door/internal/config"
	"github.com/soypat/door/internal/preview"
	"github.com/soypat/door/material"
)

func main() {
	cfg := config.Load()

	level := slog.LevelDebug
	if cfg.Production() {
		level = slog.LevelInfo
	}
	door.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	svc := preview.New(cfg, material.WoodGrainLoader(512, nil))
	defer svc.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Door Preview",
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	svc.Register(app)

	if err := svc.BuildDefault(); err != nil {
		log.Fatalf("Failed to build default door: %v", err)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	door.Logger().Info("starting door preview", "addr", addr, "env", cfg.Environment)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
