package config

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PaoloBaltazar/trackflow-server/pkg/mailer"
)

var (
	// Global dependencies shared across the application
	Client      *mongo.Client
	DB          *mongo.Database
	SecretKey   = []byte("secret")
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
	Mailer      *mailer.Mailer
	UploadDir   = "uploads"
)
