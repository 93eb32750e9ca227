package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig

	// file holds values read from .env files. Process environment wins.
	file map[string]string
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

type ContainerConfig struct {
	// ExitOnError terminates the process after a failed resolution has been
	// reported, the way a fatal error would.
	ExitOnError bool
	ExitCode    int
}

// Load reads .env files (if present) and populates a Config from them and
// the environment. Call once at bootstrap: cfg := config.Load()
//
// Files are read, not exported: os.Environ is never modified.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	cfg := &Config{file: make(map[string]string)}
	for _, f := range files {
		// Non-fatal: .env may not exist in production
		values, err := godotenv.Read(f)
		if err != nil {
			continue
		}
		for k, v := range values {
			cfg.file[k] = v
		}
	}

	env := cfg.Get("APP_ENV", "local")
	production := env == "production" || env == "prod"

	cfg.App = AppConfig{
		Name:  cfg.Get("APP_NAME", "GoInject"),
		Env:   env,
		Debug: cfg.GetBool("APP_DEBUG", !production),
		Port:  cfg.Get("APP_PORT", "8000"),
	}
	cfg.Log = LogConfig{
		Level:  strings.ToLower(cfg.Get("LOG_LEVEL", pick(production, "info", "debug"))),
		Format: strings.ToLower(cfg.Get("LOG_FORMAT", pick(production, "json", "text"))),
	}
	cfg.Container = ContainerConfig{
		ExitOnError: cfg.GetBool("DI_EXIT_ON_ERROR", false),
		ExitCode:    cfg.GetInt("DI_EXIT_CODE", 1),
	}
	return cfg
}

// Get returns a raw value, falling back to defaultVal.
func (c *Config) Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := c.file[key]; v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns an int value.
func (c *Config) GetInt(key string, defaultVal int) int {
	v := c.Get(key, "")
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string, defaultVal bool) bool {
	v := c.Get(key, "")
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// IsProduction reports whether APP_ENV names a production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production" || c.App.Env == "prod"
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
