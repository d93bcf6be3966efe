package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sprintcap/internal/ado"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	ADO                 ado.Config
	DataPath            string
	LogDir              string
	CacheDir            string
	EnableMermaidCharts bool
	FetchConcurrency    int
	HTTPAddr            string
	SnapshotMaxAge      time.Duration
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	cfg, err := FromEnv(exeDir)
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{cfg.LogDir, cfg.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create data directory")
		}
	}
	return cfg, nil
}

// FromEnv builds the configuration from the process environment only.
// defaultDataPath is used when DATA_PATH is unset.
func FromEnv(defaultDataPath string) (*AppConfig, error) {
	dataPath := getEnv("DATA_PATH", defaultDataPath)
	if dataPath == "" {
		dataPath = "."
	}

	cfg := &AppConfig{
		ADO: ado.Config{
			OrgURL:        strings.TrimRight(getEnv("ADO_ORG_URL", ""), "/"),
			Project:       getEnv("ADO_PROJECT", ""),
			APIVersion:    getEnv("ADO_API_VERSION", ado.DefaultAPIVersion),
			PAT:           getEnv("ADO_PAT", ""),
			Token:         getEnv("ADO_TOKEN", ""),
			EffortField:   getEnv("ADO_EFFORT_FIELD", ado.DefaultEffortField),
			AssigneeField: getEnv("ADO_ASSIGNEE_FIELD", ado.DefaultAssigneeField),
			RequestDelay:  time.Duration(getEnvInt("ADO_REQUEST_DELAY_MS", 0)) * time.Millisecond,
		},
		DataPath:            dataPath,
		LogDir:              filepath.Join(dataPath, "logs"),
		CacheDir:            filepath.Join(dataPath, "cache"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		FetchConcurrency:    getEnvInt("FETCH_CONCURRENCY", 1),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		SnapshotMaxAge:      time.Duration(getEnvInt("SNAPSHOT_MAX_AGE_HOURS", 24)) * time.Hour,
	}

	if cfg.FetchConcurrency < 1 {
		return nil, fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", cfg.FetchConcurrency)
	}
	return cfg, nil
}

// Validate checks the settings needed to talk to Azure DevOps.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.ADO.OrgURL == "" {
		missing = append(missing, "ADO_ORG_URL")
	}
	if c.ADO.Project == "" {
		missing = append(missing, "ADO_PROJECT")
	}
	if c.ADO.PAT == "" && c.ADO.Token == "" {
		missing = append(missing, "ADO_PAT or ADO_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
