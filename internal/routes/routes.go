// Package routes defines the API routing configuration. It wires
// repositories, services, and middleware, and groups routes by
// functionality.
package routes

import (
	"prequity/internal/config"
	"prequity/internal/crypto"
	"prequity/internal/handlers"
	"prequity/internal/middleware"
	"prequity/internal/repositories"
	"prequity/internal/repositories/cache"
	"prequity/internal/services/auth"
	"prequity/internal/services/kyc"
	"prequity/internal/services/listing"
	"prequity/internal/services/ratelimit"
	"prequity/internal/services/upload"
	walletsvc "prequity/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries the externally constructed collaborators routes need.
type Deps struct {
	DB        *gorm.DB
	Cache     *cache.CacheService // nil when Redis is unavailable
	Cipher    *crypto.FieldCipher
	Validator *upload.Validator
	Limiter   *ratelimit.Limiter
	JWTSecret string
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	// Repositories
	userRepo := repositories.NewUserRepository(deps.DB, deps.Cache)
	walletRepo := repositories.NewWalletRepository(deps.DB)
	kycRepo := repositories.NewKYCRepository(deps.DB)
	shareRepo := repositories.NewShareRepository(deps.DB)

	// Services
	authService := auth.NewService(userRepo, walletRepo, deps.Cipher, deps.JWTSecret)
	kycService := kyc.NewService(kycRepo, deps.Validator, deps.Cipher, deps.Cache)
	walletService := walletsvc.NewService(walletRepo, config.GetEnv("STRIPE_SECRET_KEY", ""))
	listingService := listing.NewService(shareRepo, kycService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	kycHandler := handlers.NewKYCHandler(kycService, deps.Validator)
	adminHandler := handlers.NewAdminHandler(kycService, kycRepo, deps.Validator)
	walletHandler := handlers.NewWalletHandler(walletService)
	shareHandler := handlers.NewShareHandler(listingService)

	// The demo-token fallback is only honored outside production.
	authMiddleware := middleware.NewAuthMiddleware(
		userRepo,
		deps.JWTSecret,
		config.GetEnv("ADMIN_EMAIL", ""),
		!config.IsProduction(),
	)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Get("/shares", shareHandler.ListShares)

	// Authenticated endpoints
	authed := api.Group("", authMiddleware.Handler)

	authed.Post("/kyc/upload",
		middleware.RateLimit(deps.Limiter, ratelimit.ActionUpload),
		kycHandler.Upload)
	authed.Get("/kyc/status",
		middleware.RateLimit(deps.Limiter, ratelimit.ActionStatusCheck),
		kycHandler.Status)

	authed.Get("/wallet", walletHandler.GetWallet)
	authed.Post("/wallet/deposit", walletHandler.Deposit)
	authed.Post("/orders", shareHandler.PlaceOrder)
	authed.Get("/orders", shareHandler.ListOrders)
	authed.Get("/orders/:id", shareHandler.GetOrder)

	// Admin endpoints
	admin := authed.Group("/admin", middleware.RequireAdmin,
		middleware.RateLimit(deps.Limiter, ratelimit.ActionAdminAction))

	admin.Get("/kyc/pending", adminHandler.ListPending)
	admin.Get("/kyc/document/:filename",
		middleware.RateLimit(deps.Limiter, ratelimit.ActionDocView),
		adminHandler.FetchDocument)
	admin.Get("/kyc/:id", adminHandler.GetSubmission)
	admin.Post("/kyc/:id/approve", adminHandler.Approve)
	admin.Post("/kyc/:id/reject", adminHandler.Reject)
}
