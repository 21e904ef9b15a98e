package server

import (
	"os"
	"strconv"

	pagelayout "github.com/lvillar/pagelayout"
)

// Config is the HTTP service configuration, read from the environment.
type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	BodyLimit    int // bytes

	Paper  string
	Locale string

	// ImageDir is the only directory image items may read from. Empty
	// disables file images.
	ImageDir string
}

// LoadConfig reads the service configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
		BodyLimit:    getEnvAsInt("BODY_LIMIT", 8*1024*1024),
		Paper:        getEnv("LAYOUT_PAPER", pagelayout.PaperA4),
		Locale:       getEnv("LAYOUT_LOCALE", pagelayout.DefaultLocale),
		ImageDir:     getEnv("LAYOUT_IMAGE_DIR", ""),
	}
}

// LayoutOptions returns the engine options implied by the configuration.
func (c *Config) LayoutOptions() []pagelayout.Option {
	return []pagelayout.Option{
		pagelayout.WithPaperSize(c.Paper),
		pagelayout.WithLocale(c.Locale),
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
