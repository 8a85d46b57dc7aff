package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	CredentialsFile string

	// StoreBackend selects the persistence implementation:
	// "firestore" (default) or "memory" for local development.
	StoreBackend string

	// EmailProvider selects the email channel backend:
	// "log" (default, no real delivery), "smtp", "sendgrid" or "mailgun".
	EmailProvider string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	SendGridKey   string
	MailgunKey    string
	MailgunDomain string

	NotifyWindow   time.Duration
	NotifyInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: No .env file found or failed to load") // Use only in dev
	}

	return &Config{
		Port:            getenv("PORT", "8080"),
		JWTSecret:       os.Getenv("JWT_SECRET_KEY"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		StoreBackend:    getenv("STORE_BACKEND", "firestore"),
		EmailProvider:   getenv("EMAIL_PROVIDER", "log"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        os.Getenv("SMTP_PORT"),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		EmailFrom:       getenv("EMAIL_FROM", "no-reply@planner.local"),
		SendGridKey:     os.Getenv("SENDGRID_API_KEY"),
		MailgunKey:      os.Getenv("MAILGUN_API_KEY"),
		MailgunDomain:   os.Getenv("MAILGUN_DOMAIN"),
		NotifyWindow:    time.Duration(getenvInt("NOTIFY_WINDOW_HOURS", 24)) * time.Hour,
		NotifyInterval:  time.Duration(getenvInt("NOTIFY_INTERVAL_SECONDS", 60)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
