//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/logger"
)

// LoadSettings reads and validates the configuration at path and applies its
// log level. A non-empty logLevel overrides the configured one.
func LoadSettings(path, logLevel string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}
