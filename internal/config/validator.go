package config

import (
	"fmt"
	"strings"
)

// Validate checks the startup invariants:
//   - API key present (file value or AMPTRACK_API_KEY)
//   - session secret present
//   - ignore entries non-empty and free of stray whitespace
//
// It runs once at startup; a failure here prevents the host from serving.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.APIKey == "" {
		errs = append(errs, fmt.Sprintf("api_key is required (set it in the config file or via %s)", APIKeyEnv))
	}
	if cfg.Session.Secret == "" {
		errs = append(errs, "session.secret is required")
	}
	if cfg.Session.MaxAge < 0 {
		errs = append(errs, fmt.Sprintf("session.max_age must not be negative, got %d", cfg.Session.MaxAge))
	}
	for i, entry := range cfg.Ignore {
		if strings.TrimSpace(entry) == "" {
			errs = append(errs, fmt.Sprintf("ignore[%d]: entry is empty", i))
		} else if entry != strings.TrimSpace(entry) {
			errs = append(errs, fmt.Sprintf("ignore[%d]: entry %q has surrounding whitespace", i, entry))
		}
	}

	if len(errs) > 0 {
		return Error.New("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
