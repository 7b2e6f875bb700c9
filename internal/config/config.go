// Package config loads mhf-auth settings from the environment, an optional
// .env file and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds global settings shared by all subcommands.
type Config struct {
	Server     string `env:"MHF_AUTH_SERVER"      envDefault:"http://127.0.0.1:8080"`
	ConfigPath string `env:"MHF_AUTH_CONFIG_PATH" envDefault:"config.json"`
	LogLevel   string `env:"MHF_AUTH_LOG_LEVEL"   envDefault:"info"`
}

// Load reads dotenv (if present), then the environment, then registers flags
// on flags seeded with those values and parses args.
func Load(flags *flag.FlagSet, args []string, dotenv ...string) (Config, error) {
	if err := loadDotenv(dotenv...); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flags.StringVar(&cfg.Server, "server", cfg.Server, "account server URL")
	flags.StringVar(&cfg.Server, "s", cfg.Server, "account server URL (shorthand)")
	flags.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "launch configuration output path")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotenv loads the given files (default .env). Missing files are ignored;
// variables already set in the environment win.
func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// NewLogger builds a console logger on stderr at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
