package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string
	// Site identity used in mail subjects and signatures
	SiteName       string
	SiteTimezone   string
	CompanyAddress string
	CompanyTel     string
	// Mail Configuration
	MailDriver      string // "smtp" or "log"
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	MailFromAddress string
	MailFromName    string
	InquiryMailTo   string
	InquiryMailCc   string
	MailSendTimeout time.Duration
	// Anti-forgery token Configuration
	TokenMode string // "verify" or "presence"
	TokenTTL  time.Duration
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitInquiryThreshold int
	RateLimitTokenThreshold   int
	AllowedOrigins            []string
	InquirySuccessRedirect    string
	// Rendered form options
	CarTypes   []string
	Stores     []string
	VisitTimes []string
}

func LoadConfig() (*Config, error) {
	// Load .env file when present (local development only)
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SiteName:       getEnv("SITE_NAME", "軽の森"),
		SiteTimezone:   getEnv("SITE_TIMEZONE", "Asia/Tokyo"),
		CompanyAddress: getEnv("COMPANY_ADDRESS", "〒591-8025 大阪府堺市北区長曽根町3083-10"),
		CompanyTel:     getEnv("COMPANY_TEL", "072-240-0809"),

		MailDriver:      strings.ToLower(getEnv("MAIL_DRIVER", "smtp")),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		MailFromAddress: getEnv("MAIL_FROM_ADDRESS", "noreply@keinomori.com"),
		MailFromName:    getEnv("MAIL_FROM_NAME", getEnv("SITE_NAME", "軽の森")),
		InquiryMailTo:   getEnv("INQUIRY_MAIL_TO", ""),
		InquiryMailCc:   getEnv("INQUIRY_MAIL_CC", ""),
		MailSendTimeout: getEnvDuration("MAIL_SEND_TIMEOUT", 10*time.Second),

		TokenMode: strings.ToLower(getEnv("INQUIRY_TOKEN_MODE", "verify")),
		TokenTTL:  getEnvDuration("INQUIRY_TOKEN_TTL", 2*time.Hour),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitInquiryThreshold: getEnvInt("RATE_LIMIT_INQUIRY_THRESHOLD", 10),
		RateLimitTokenThreshold:   getEnvInt("RATE_LIMIT_TOKEN_THRESHOLD", 30),
		AllowedOrigins:            getEnvList("ALLOWED_ORIGINS", []string{"https://keinomori.com", "https://www.keinomori.com"}),
		InquirySuccessRedirect:    getEnv("INQUIRY_SUCCESS_REDIRECT", ""),

		CarTypes:   getEnvList("INQUIRY_CAR_TYPES", []string{"N-BOX", "タント", "スペーシア", "ムーヴ", "その他"}),
		Stores:     getEnvList("INQUIRY_STORES", []string{"堺本店"}),
		VisitTimes: getEnvList("INQUIRY_VISIT_TIMES", []string{"10:00〜12:00", "12:00〜14:00", "14:00〜16:00", "16:00〜18:00"}),
	}

	if cfg.InquiryMailTo == "" {
		log.Println("WARNING: INQUIRY_MAIL_TO is missing. Staff notifications will fail.")
	}

	if cfg.MailDriver == "smtp" && (cfg.SMTPHost == "" || cfg.SMTPUsername == "") {
		log.Println("WARNING: SMTP is not fully configured. Set MAIL_DRIVER=log for local development.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Tokens and rate limits will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("10s", "2h")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
