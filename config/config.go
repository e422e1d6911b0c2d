package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables. The Hospitable credentials are passed to the upstream client
// at construction; nothing reads them ambiently at call time.
type Config struct {
	Port        string
	CORSOrigins []string

	MySQLURL string
	DBUser   string
	DBPass   string
	DBHost   string
	DBPort   string
	DBName   string

	HospitableAPIURL string
	HospitableAPIKey string
}

// Load reads the .env file (optional) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),

		MySQLURL: firstNonEmpty(os.Getenv("MYSQL_URL"), os.Getenv("DATABASE_URL")),
		DBUser:   getEnv("DB_USER", "root"),
		DBPass:   getEnv("DB_PASS", ""),
		DBHost:   getEnv("DB_HOST", "127.0.0.1"),
		DBPort:   getEnv("DB_PORT", "3306"),
		DBName:   getEnv("DB_NAME", "rental_db"),

		HospitableAPIURL: getEnv("HOSPITABLE_API_URL", "https://public.api.hospitable.com/v2"),
		HospitableAPIKey: strings.TrimSpace(os.Getenv("HOSPITABLE_API_KEY")),
	}
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
