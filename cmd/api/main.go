package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/PaoloBaltazar/trackflow-server/configs"
	v1 "github.com/PaoloBaltazar/trackflow-server/internal/api/v1"
	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/internal/middleware"
	"github.com/PaoloBaltazar/trackflow-server/internal/repository"
	"github.com/PaoloBaltazar/trackflow-server/pkg/database"
	"github.com/PaoloBaltazar/trackflow-server/pkg/logger"
	"github.com/PaoloBaltazar/trackflow-server/pkg/mailer"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	if cfg.JWTSecret != "" {
		config.SecretKey = []byte(cfg.JWTSecret)
	}
	config.UploadDir = cfg.UploadDir

	config.Client, config.DB = database.ConnectDB(cfg)
	defer config.Client.Disconnect(config.Ctx)
	logger.SystemLogger.Info("Database Connected")

	repository.EnsureIndexes(config.DB)

	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()

	config.Mailer = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPSender)

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:8080",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Working")
	})

	v1.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
