package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DataPath      string
	DBPath        string
	BaseURL       string // public origin embedded in magic-link emails
	CORSOrigins   []string
	ResendAPIKey  string // empty = console fallback mode
	EmailFrom     string
	AdminEmail    string
	AdminPassword string
	Env           string // "development" or "production"
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "./data")

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	env := getEnv("ENV", "development")
	if env == "production" && os.Getenv("ADMIN_PASSWORD") == "" {
		log.Fatal("ADMIN_PASSWORD must be set in production")
	}

	return &Config{
		Port:          port,
		DataPath:      dataPath,
		DBPath:        getEnv("DB_PATH", dataPath+"/tasksafe.db"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		CORSOrigins:   corsOrigins,
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@affirmer.education"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@tasksafe.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		Env:           env,
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
