package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`

	OutputDir string `yaml:"output_dir"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	RedisAddr string `yaml:"redis_addr"`
	RedisPass string `yaml:"redis_pass"`
	CacheTTL  int    `yaml:"cache_ttl"`

	ExportType     string `yaml:"export_type"`
	StrictGeometry bool   `yaml:"strict_geometry"`

	ConverterURL string   `yaml:"converter_url"`
	CORSOrigins  []string `yaml:"cors_origins"`
}

// Load reads .env, then environment variables, then the YAML file named by
// CONFIG_FILE when one is set. Non-empty YAML values win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := FromEnv()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		OutputDir:      getEnv("OUTPUT_DIR", "data/exports"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:          getEnv("DB_DSN", "data/gbxml.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		CacheTTL:       getEnvAsInt("CACHE_TTL", 600),
		ExportType:     getEnv("EXPORT_TYPE", "tas"),
		StrictGeometry: getEnvAsBool("STRICT_GEOMETRY", false),
		ConverterURL:   getEnv("CONVERTER_URL", "http://localhost:3001"),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
	}
}

// MergeFile overrides fields with the non-zero values of a YAML file.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.merge(file)
	return nil
}

func (c *Config) merge(o Config) {
	setString(&c.Port, o.Port)
	setString(&c.Environment, o.Environment)
	setInt(&c.ReadTimeout, o.ReadTimeout)
	setInt(&c.WriteTimeout, o.WriteTimeout)
	setString(&c.OutputDir, o.OutputDir)
	setString(&c.DBDriver, o.DBDriver)
	setString(&c.DBDSN, o.DBDSN)
	setString(&c.RedisAddr, o.RedisAddr)
	setString(&c.RedisPass, o.RedisPass)
	setInt(&c.CacheTTL, o.CacheTTL)
	setString(&c.ExportType, o.ExportType)
	setString(&c.ConverterURL, o.ConverterURL)
	if len(o.CORSOrigins) > 0 {
		c.CORSOrigins = o.CORSOrigins
	}
	if o.StrictGeometry {
		c.StrictGeometry = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}
