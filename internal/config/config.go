package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	JWTSecret     string
	MongoURI      string
	DBName        string
	CampaignDBURI string // Postgres DSN of the mailer database holding campaigns
	SkipAuth      bool
	Environment   string
	AppId         string

	ScriptTimeoutMs    int  // wall-clock budget for report template scripts
	StrictSingleFields bool // treat an empty single-valued field resolution as an error
	AuditRetentionDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "go-reports"),
		CampaignDBURI:      getEnv("CAMPAIGN_DB_URI", "postgres://localhost:5432/mailer?sslmode=disable"),
		SkipAuth:           getEnv("SKIP_AUTH", "false") == "true",
		Environment:        getEnv("ENVIRONMENT", "development"),
		AppId:              getEnv("APP_ID", "go-reports"),
		ScriptTimeoutMs:    getEnvInt("SCRIPT_TIMEOUT_MS", 10000),
		StrictSingleFields: getEnv("STRICT_SINGLE_FIELDS", "false") == "true",
		AuditRetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 90),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}
