package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type Option func(cfg *Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(cfg *Config) {
		cfg.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.Server.WriteTimeout = d
	}
}

func WithStorage(storage string) Option {
	return func(cfg *Config) {
		cfg.Storage = storage
	}
}
