// Package main is the entry point for the API server. It loads
// configuration, connects Postgres and Redis, builds the service graph,
// and starts the HTTP listener.
package main

import (
	"context"
	"log"
	"time"

	"prequity/internal/config"
	"prequity/internal/crypto"
	"prequity/internal/repositories"
	"prequity/internal/repositories/cache"
	"prequity/internal/routes"
	"prequity/internal/services/ratelimit"
	"prequity/internal/services/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	// Required secrets abort startup when absent; the server must not
	// run with encryption or signing disabled.
	encryptionKey := config.MustGetEnv("ENCRYPTION_KEY")
	jwtSecret := config.MustGetEnv("JWT_SECRET")

	cipher, err := crypto.NewFieldCipher(encryptionKey)
	if err != nil {
		log.Fatalf("field encryption setup failed: %v", err)
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("database initialization failed: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("failed to close database connection: %v", err)
			}
		}
	}()

	// Redis backs the user/status caches and the shared rate-limit
	// counters. Without it the limiter falls back to process-local
	// counters, which only hold per instance.
	var cacheService *cache.CacheService
	var limiterStore ratelimit.Store
	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, using in-process rate limiting: %v", err)
		limiterStore = ratelimit.NewMemoryStore()
	} else {
		cacheService = cache.NewCacheService(redisClient, 24*time.Hour)
		limiterStore = ratelimit.NewRedisStore(redisClient)
		defer func() {
			if err := cacheService.Close(); err != nil {
				log.Printf("failed to close redis connection: %v", err)
			}
		}()
	}
	cancel()

	validator, err := upload.NewValidator(config.GetEnv("UPLOAD_DIR", "uploads/kyc"))
	if err != nil {
		log.Fatalf("upload directory setup failed: %v", err)
	}

	// The framework body limit sits above the upload ceiling so the
	// validator, not the framework, makes the size decision and emits
	// the typed FILE_TOO_LARGE error. Headroom covers multipart framing.
	app := fiber.New(fiber.Config{
		BodyLimit: upload.MaxFileSize + 1<<20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGIN", "http://localhost:3000"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Per-IP limits on the public auth endpoints; the per-user KYC
	// limits are applied per route in routes.SetupRoutes.
	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(429).JSON(fiber.Map{
					"success": false,
					"type":    "RATE_LIMIT_EXCEEDED",
					"error":   "too many requests, please try again later",
				})
			},
		}))
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:        repositories.DB,
		Cache:     cacheService,
		Cipher:    cipher,
		Validator: validator,
		Limiter:   ratelimit.NewLimiter(limiterStore),
		JWTSecret: jwtSecret,
	})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "8080")))
}
