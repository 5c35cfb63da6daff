package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// FlowPath names a .flow.json file or a directory of them.
	FlowPath string
	// OutDir enables artifact persistence when non-empty.
	OutDir string
	// EventsURL enables the socket.io status emitter when non-empty.
	EventsURL string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
