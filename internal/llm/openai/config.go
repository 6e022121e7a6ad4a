package openai

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config for the OpenAI client.
type Config struct {
	APIKey      string        // required; never read from the environment here
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // default "gpt-4"
	Temperature float32       // 0 leaves the provider default
	Timeout     time.Duration // http client timeout; 0 means none
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}
