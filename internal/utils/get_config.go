package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`
	AppEnv  string `yaml:"APP_ENV"`
	LogFile string `yaml:"LOG_FILE"`
	// Requests per second per client; 0 falls back to the default
	RateLimit int `yaml:"RATE_LIMIT_PER_SECOND"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Media storage: "s3" or "local"
	StorageDriver string `yaml:"STORAGE_DRIVER"`
	MediaRoot     string `yaml:"MEDIA_ROOT"`
	MediaURL      string `yaml:"MEDIA_URL"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`

	// Redis cache; disabled when REDIS_ADDR is empty
	RedisAddr       string `yaml:"REDIS_ADDR"`
	RedisPassword   string `yaml:"REDIS_PASSWORD"`
	RedisDB         int    `yaml:"REDIS_DB"`
	CacheTTLSeconds int    `yaml:"CACHE_TTL_SECONDS"`
}

var config Config

func LoadConfig() {
	LoadConfigFile("config.yaml")
}

func LoadConfigFile(path string) {
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig returns the value for key. A non-empty environment variable of the
// same name wins over config.yaml.
func GetConfig(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	switch key {
	case "APP_PORT":
		if config.AppPort == "" {
			return "8080"
		}
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "APP_ENV":
		return config.AppEnv
	case "LOG_FILE":
		return config.LogFile
	case "RATE_LIMIT_PER_SECOND":
		return strconv.Itoa(config.RateLimit)
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return strconv.Itoa(config.JWTTTLMinutes)
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "STORAGE_DRIVER":
		if config.StorageDriver == "" {
			return "local"
		}
		return config.StorageDriver
	case "MEDIA_ROOT":
		if config.MediaRoot == "" {
			return "./media"
		}
		return config.MediaRoot
	case "MEDIA_URL":
		if config.MediaURL == "" {
			return "/media"
		}
		return config.MediaURL
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return strconv.Itoa(config.RedisDB)
	case "CACHE_TTL_SECONDS":
		return strconv.Itoa(config.CacheTTLSeconds)
	default:
		return ""
	}
}

// GetConfigInt parses GetConfig(key), falling back to def when the value is
// missing, malformed or not positive.
func GetConfigInt(key string, def int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
