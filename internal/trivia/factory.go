package trivia

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewSource creates the API-backed Source for cfg, wrapped with retry and
// logging middleware.
func NewSource(cfg Config, log logrus.FieldLogger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("trivia config: %w", err)
	}

	// caller → retry → logging → client
	logged := WithLogging(NewClient(cfg), log)
	return WithRetry(logged, cfg.Retry), nil
}
