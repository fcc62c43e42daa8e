package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/agenda/internal/auth"
	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/handlers"
	"github.com/example/agenda/internal/middleware"
	"github.com/example/agenda/internal/repository"
	"github.com/example/agenda/internal/setup"
	"github.com/example/agenda/internal/verify"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	gateway := verify.NewTwilioGateway(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifySID)

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)

	authService := auth.NewService(gateway, userRepo)
	issuer := auth.NewSessionIssuer(cfg.JWTSecret, cfg.BaseURL, cfg.SessionTTL)
	setupService := setup.NewService(cfg.AdminSetupPassword, userRepo, eventRepo)

	authHandler := handlers.NewAuthHandler(authService, issuer)
	setupHandler := handlers.NewSetupHandler(setupService)
	profileHandler := handlers.NewProfileHandler(userRepo)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/send-code", authHandler.SendCode)
	authGroup.Post("/verify", authHandler.Verify)

	protected := api.Group("", middleware.AuthMiddleware(issuer))
	protected.Post("/setup", setupHandler.CompleteSetup)
	protected.Get("/profile", profileHandler.GetProfile)
}
