package infs

import "log/slog"

// createConfig holds configuration for bundle creation.
type createConfig struct {
	logger   *slog.Logger
	maxFiles int
	prefix   string
}

// log returns the logger, falling back to a discard logger if nil.
func (cfg *createConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}

// CreateOption configures bundle creation.
type CreateOption func(*createConfig)

// CreateWithLogger sets a logger for creation progress and skip diagnostics.
// By default nothing is logged.
func CreateWithLogger(logger *slog.Logger) CreateOption {
	return func(cfg *createConfig) {
		cfg.logger = logger
	}
}

// CreateWithMaxFiles limits the number of files included in the bundle.
// Zero or negative means no limit beyond the format's entry count field.
func CreateWithMaxFiles(n int) CreateOption {
	return func(cfg *createConfig) {
		cfg.maxFiles = n
	}
}

// CreateWithPrefix prepends a path prefix to every archive key.
// Useful when several bundles are merged under one logical namespace.
func CreateWithPrefix(prefix string) CreateOption {
	return func(cfg *createConfig) {
		cfg.prefix = prefix
	}
}
