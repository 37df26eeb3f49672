package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// --- Configuration & Environment ---

const (
	DefaultPort              = 5000
	DefaultOpenAIModel       = "gpt-3.5-turbo"
	DefaultOpenRouterModel   = "openchat/openchat-7b"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultAmbientInterval   = 90 * time.Minute
	DefaultProviderTimeout   = 60 * time.Second
)

type Config struct {
	Token             string
	GuildID           string
	Port              int
	OpenAIKey         string
	OpenAIModel       string
	OpenRouterKey     string
	OpenRouterModel   string
	OpenRouterBaseURL string
	AmbientInterval   time.Duration
	ProviderTimeout   time.Duration
	FallbackDir       string
	Silent            bool
}

// loadDotEnv merges a .env file from the working directory into the
// process environment. Variables already set win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// LoadConfig initializes the configuration from environment variables.
// A .env file in the working directory is honoured when present.
func LoadConfig() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		Token:             strings.TrimSpace(os.Getenv("DISCORD_BOT_TOKEN")),
		GuildID:           os.Getenv("GUILD_ID"),
		Port:              DefaultPort,
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       envOr("OPENAI_MODEL", DefaultOpenAIModel),
		OpenRouterKey:     os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   envOr("OPENROUTER_MODEL", DefaultOpenRouterModel),
		OpenRouterBaseURL: strings.TrimRight(envOr("OPENROUTER_BASE_URL", DefaultOpenRouterBaseURL), "/"),
		AmbientInterval:   DefaultAmbientInterval,
		ProviderTimeout:   DefaultProviderTimeout,
		FallbackDir:       os.Getenv("FALLBACK_DIR"),
	}

	cfg.Silent, _ = strconv.ParseBool(os.Getenv("SILENT"))

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf(MsgConfigInvalidPort, portStr)
		}
		cfg.Port = port
	}

	var err error
	if cfg.AmbientInterval, err = envDuration("AMBIENT_INTERVAL", DefaultAmbientInterval); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = envDuration("PROVIDER_TIMEOUT", DefaultProviderTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf(MsgConfigInvalidPort, strconv.Itoa(c.Port))
	}
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf(MsgConfigInvalidGuildID)
	}
	return nil
}

// ListenAddr is the liveness server bind address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		return 0, fmt.Errorf(MsgConfigInvalidDur, key, raw, err)
	}
	return d, nil
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "jarvis"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") || strings.HasSuffix(projectName, ".test") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
