package config

import (
	"context"

	"github.com/htwg-in-schneider/frontend-cooked/internal/app"
)

type contextKey string

const configKey contextKey = "cooked-config"

// GlobalConfig holds shared configuration for all cooked commands.
// It is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	Config   *Config
	Provider *app.Provider
}

// InjectConfig adds config to the command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only use it in RunE functions of commands below the root command.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("cooked: config not found in context - this is a bug in cooked")
	}
	return cfg
}
