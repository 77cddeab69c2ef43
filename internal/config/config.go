package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Значения по умолчанию для секретов. Пригодны только для локальной
// разработки, в боевом окружении обязаны быть заданы через окружение.
const (
	fallbackJWTSecret  = "supersecretkey"
	fallbackNewsAPIKey = "your_api_key_here"
)

// NewsAPI хранит политику обращения к внешнему провайдеру заголовков.
type NewsAPI struct {
	BaseURL        string `json:"base_url"`
	Country        string `json:"country"`
	PageSize       int    `json:"page_size"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Config хранит настройку HTTP-сервера, базы данных, токенов и внешнего провайдера.
type Config struct {
	ListenAddr    string  `json:"listen_addr"`
	DatabaseURL   string  `json:"database_url"`
	TokenTTLHours int     `json:"token_ttl_hours"`
	NewsAPI       NewsAPI `json:"news_api"`

	// Секреты, только из окружения.
	JWTSecret  string `json:"-"`
	NewsAPIKey string `json:"-"`
}

// LoadConfig читает JSON-файл по пути path и накладывает поверх
// переменные окружения: DATABASE_URL, LISTEN_ADDR, JWT_SECRET,
// JWT_EXPIRES_HOURS, NEWS_API_KEY.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Config{
		ListenAddr:    ":8080",
		TokenTTLHours: 24,
		NewsAPI: NewsAPI{
			BaseURL:        "https://newsapi.org/v2/top-headlines",
			Country:        "us",
			PageSize:       10,
			TimeoutSeconds: 10,
		},
	}
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("JWT_EXPIRES_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_HOURS: %q", v)
		}
		cfg.TokenTTLHours = hours
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = fallbackJWTSecret
	}
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	if cfg.NewsAPIKey == "" {
		cfg.NewsAPIKey = fallbackNewsAPIKey
	}

	return &cfg, nil
}

// Validate проверяет согласованность конфигурации.
func (cfg *Config) Validate() error {
	if cfg.DatabaseURL == "" {
		return errors.New("database URL is required")
	}
	if cfg.TokenTTLHours < 1 {
		return errors.New("token TTL must be ≥ 1 hour")
	}
	if cfg.NewsAPI.PageSize < 1 || cfg.NewsAPI.PageSize > 100 {
		return errors.New("news API page size must be between 1 and 100")
	}
	if _, err := url.ParseRequestURI(cfg.NewsAPI.BaseURL); err != nil {
		return fmt.Errorf("invalid news API URL: %s", cfg.NewsAPI.BaseURL)
	}
	return nil
}

// TokenTTL возвращает срок жизни токена как Duration.
func (cfg *Config) TokenTTL() time.Duration {
	return time.Duration(cfg.TokenTTLHours) * time.Hour
}

// ExternalTimeout возвращает таймаут запроса к внешнему провайдеру.
func (cfg *Config) ExternalTimeout() time.Duration {
	return time.Duration(cfg.NewsAPI.TimeoutSeconds) * time.Second
}
