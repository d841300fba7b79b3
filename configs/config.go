package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDB     string
	MongoDBTest string
	RedisHost   string
	RedisPort   int
	JWTSecret   string
	Port        int
	UploadDir   string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPSender  string
}

func LoadConfig() Config {
	// Load the .env file if present
	if err := godotenv.Load(); err != nil {
		// Only log outside of test mode
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 4000
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "trackflow"
	}

	mongoDBTest := os.Getenv("MONGO_DB_TEST")
	if mongoDBTest == "" {
		mongoDBTest = "trackflow_test"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return Config{
		MongoURI:    mongoURI,
		MongoDB:     mongoDB,
		MongoDBTest: mongoDBTest,
		RedisHost:   os.Getenv("REDIS_HOST"),
		RedisPort:   redisPort,
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        port,
		UploadDir:   uploadDir,
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    smtpPort,
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		SMTPSender:  os.Getenv("SMTP_SENDER"),
	}
}
