package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	MongoURI      string
	MongoDatabase string
	Port          string
	GeminiAPIKey  string
	GeminiModel   string
	AWSRegion     string
	AWSBucketName string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FFmpegBinary  string
	FFprobeBinary string
	WorkDir       string
	SenderEmail   string
	SenderName    string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	MongoDatabase = os.Getenv("MONGO_DATABASE")
	if MongoDatabase == "" {
		MongoDatabase = "nyumba"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	GeminiModel = os.Getenv("GEMINI_MODEL")
	if GeminiModel == "" {
		GeminiModel = "gemini-1.5-pro"
	}

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "af-south-1"
	}

	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
	if AWSBucketName == "" {
		AWSBucketName = "nyumba-media"
	}

	RedisAddr = os.Getenv("REDIS_ADDR")
	if RedisAddr == "" {
		RedisAddr = "localhost:6379"
	}
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	RedisDB = getEnvInt("REDIS_DB", 0)

	FFmpegBinary = os.Getenv("FFMPEG_BINARY")
	if FFmpegBinary == "" {
		FFmpegBinary = "ffmpeg"
	}

	FFprobeBinary = os.Getenv("FFPROBE_BINARY")
	if FFprobeBinary == "" {
		FFprobeBinary = "ffprobe"
	}

	WorkDir = os.Getenv("WORK_DIR")
	if WorkDir == "" {
		WorkDir = "uploads"
	}

	SenderEmail = os.Getenv("SENDER_EMAIL")
	if SenderEmail == "" {
		SenderEmail = "no-reply@nyumba.co.ke"
	}
	SenderName = os.Getenv("SENDER_NAME")
	if SenderName == "" {
		SenderName = "Nyumba AI"
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
