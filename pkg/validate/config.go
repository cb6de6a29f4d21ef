package validate

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/rendis/khimera/internal/logging"
)

// Config holds the settings of a Validator.
type Config struct {
	// Concurrency bounds the number of plugins ValidateAll checks at once.
	Concurrency int
	// Logger receives one debug record per validated plugin.
	Logger *slog.Logger
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Concurrency: runtime.GOMAXPROCS(0),
		Logger:      slog.Default(),
	}
}

// LoadConfig layers environment overrides on DefaultConfig.
// Invalid values are ignored.
//
//	KHIMERA_VALIDATE_CONCURRENCY  positive integer
//	KHIMERA_LOG_LEVEL             debug | info | warn | error (text logger on stderr)
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("KHIMERA_VALIDATE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("KHIMERA_LOG_LEVEL"); v != "" {
		if level, ok := logging.ParseLevel(v); ok {
			cfg.Logger = logging.NewTextLogger(os.Stderr, level)
		}
	}

	return cfg
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	return c
}
