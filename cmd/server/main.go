package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/database"
	"github.com/example/agenda/internal/logger"
	"github.com/example/agenda/internal/routes"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Close()

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Agenda Backend",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, db, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
