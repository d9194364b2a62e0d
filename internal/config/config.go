package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendModeScript = "script"
	BackendModeSheets = "sheets"

	FormModeModal  = "modal"
	FormModeInline = "inline"
)

type Config struct {
	ServerPort string
	Env        string
	LogLevel   string

	// Booking backend
	BackendURL            string
	BackendMode           string
	BackendTimeout        time.Duration
	SheetsCredentialsFile string
	SheetsSpreadsheetID   string
	SheetsRange           string

	// Admin gate
	AdminPassword string
	JWTSecret     string
	AdminTokenTTL time.Duration

	// Booking page
	Timezone        string
	FormMode        string
	InviteeEmail    string
	MeetingTitle    string
	MeetingLocation string
	ContactPhone    string
	WhatsAppURL     string

	// Sessions
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Optional audit database
	DBUrl string

	RateLimitPerMinute int
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment only")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("failed to read config file: %v", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("BOOKING_BACKEND_URL", "https://script.google.com/macros/s/AKfycbxfoanV0ZAhs8esVGtci22cMRlCuY2DvYiVrPg7DbV14lnyhXs8pIed3DYEkCY_U15hNw/exec")
	v.SetDefault("BACKEND_MODE", BackendModeScript)
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("SHEETS_CREDENTIALS_FILE", "credentials.json")
	v.SetDefault("SHEETS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_RANGE", "Bookings!A2:H")

	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")

	v.SetDefault("BOOKING_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("BOOKING_FORM_MODE", FormModeModal)
	v.SetDefault("INVITEE_EMAIL", "tej@zyerolead.com")
	v.SetDefault("MEETING_TITLE", "ZyeroLead Strategy Call")
	v.SetDefault("MEETING_LOCATION", "Google Meet")
	v.SetDefault("CONTACT_PHONE", "+919876543210")
	v.SetDefault("WHATSAPP_URL", "https://wa.me/919876543210")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "2h")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		Env:        strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:   strings.ToLower(v.GetString("LOG_LEVEL")),

		BackendURL:            v.GetString("BOOKING_BACKEND_URL"),
		BackendMode:           strings.ToLower(v.GetString("BACKEND_MODE")),
		BackendTimeout:        v.GetDuration("BACKEND_TIMEOUT"),
		SheetsCredentialsFile: v.GetString("SHEETS_CREDENTIALS_FILE"),
		SheetsSpreadsheetID:   v.GetString("SHEETS_SPREADSHEET_ID"),
		SheetsRange:           v.GetString("SHEETS_RANGE"),

		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		AdminTokenTTL: v.GetDuration("ADMIN_TOKEN_TTL"),

		Timezone:        v.GetString("BOOKING_TIMEZONE"),
		FormMode:        strings.ToLower(v.GetString("BOOKING_FORM_MODE")),
		InviteeEmail:    v.GetString("INVITEE_EMAIL"),
		MeetingTitle:    v.GetString("MEETING_TITLE"),
		MeetingLocation: v.GetString("MEETING_LOCATION"),
		ContactPhone:    v.GetString("CONTACT_PHONE"),
		WhatsAppURL:     v.GetString("WHATSAPP_URL"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),

		DBUrl: v.GetString("DATABASE_URL"),

		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if cfg.FormMode != FormModeInline {
		cfg.FormMode = FormModeModal
	}
	if cfg.BackendMode != BackendModeSheets {
		cfg.BackendMode = BackendModeScript
	}
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = 15 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = 12 * time.Hour
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 30
	}

	return cfg
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
