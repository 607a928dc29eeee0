package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	JWTSecret string

	// Vision / image generation
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	VisionModel    string
	ImageGenModel  string
	ProviderWait   time.Duration // upper bound for a single completion call

	// Web image search
	PexelsAPIKey     string
	FallbackImageURL string

	// Object storage
	S3Bucket         string
	S3Prefix         string
	S3Endpoint       string
	AWSRegion        string
	CloudfrontDomain string

	RedisURL string

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8094"),
		Env:  getEnv("APP_ENV", "development"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		VisionModel:   getEnv("VISION_MODEL", "gpt-4o"),
		ImageGenModel: getEnv("IMAGE_GEN_MODEL", "gpt-4o"),
		ProviderWait:  getDuration("PROVIDER_TIMEOUT", 60*time.Second),

		PexelsAPIKey:     os.Getenv("PEXELS_API_KEY"),
		FallbackImageURL: getEnv("FALLBACK_IMAGE_URL", "https://loremflickr.com/800/600"),

		S3Bucket:         getEnv("AWS_S3_BUCKET", "menu-imports"),
		S3Prefix:         getEnv("AWS_S3_PREFIX", "products/"),
		S3Endpoint:       os.Getenv("AWS_S3_ENDPOINT"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		CloudfrontDomain: os.Getenv("AWS_CLOUDFRONT_DOMAIN"),

		RedisURL: getEnv("REDIS_URL", "redis://redis:6379"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "menu.import.completed"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
