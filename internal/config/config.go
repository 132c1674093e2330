package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN   string        `env:"DATABASE_URI"`
	AuthSecret    string        `env:"AUTH_SECRET"`
	CampusDomain  string        `env:"CAMPUS_DOMAIN"`
	AdminEmails   []string      `env:"ADMIN_EMAILS" envSeparator:","`
	RedisURL      string        `env:"REDIS_URL"`
	MatchCacheTTL time.Duration `env:"MATCH_CACHE_TTL"`
	KafkaBrokers  []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic    string        `env:"KAFKA_TOPIC"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	var adminEmails, kafkaBrokers string

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к файлу SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.CampusDomain, "campus-domain", cfg.CampusDomain, "почтовый домен кампуса для автоподтверждения")
	flag.StringVar(&adminEmails, "admin-emails", strings.Join(cfg.AdminEmails, ","), "адреса администраторов через запятую")
	flag.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "адрес Redis для кэша совпадений (пусто — без кэша)")
	flag.DurationVar(&cfg.MatchCacheTTL, "match-cache-ttl", cfg.MatchCacheTTL, "время жизни кэша совпадений")
	flag.StringVar(&kafkaBrokers, "kafka-brokers", strings.Join(cfg.KafkaBrokers, ","), "брокеры Kafka через запятую (пусто — события только в лог)")
	flag.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "топик Kafka для событий")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the LostFound server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.AdminEmails = splitList(adminEmails)
	cfg.KafkaBrokers = splitList(kafkaBrokers)

	// Defaults
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:lostfound.db"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.CampusDomain == "" {
		cfg.CampusDomain = "@college.edu"
	}
	if cfg.MatchCacheTTL <= 0 {
		cfg.MatchCacheTTL = 30 * time.Second
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "lostfound.events"
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".lostfound_token")
	}

	return cfg
}

// IsAdminEmail reports whether email is listed in AdminEmails (case-insensitive).
func (c *Config) IsAdminEmail(email string) bool {
	for _, a := range c.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
