package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/oklahomer/go-sarah-discordbot"
)

// fileConfig is the layout of the YAML configuration file.
type fileConfig struct {
	Discord *discord.Config `yaml:"discord"`
	Log     *logConfig      `yaml:"log"`
}

// logConfig configures the rotating log file.
type logConfig struct {
	File       string `yaml:"file" env:"BOT_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"BOT_LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"BOT_LOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"BOT_LOG_MAX_AGE_DAYS"`
	Compress   bool   `yaml:"compress" env:"BOT_LOG_COMPRESS"`
}

func newFileConfig() *fileConfig {
	return &fileConfig{
		Discord: discord.NewConfig(),
		Log: &logConfig{
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// loadConfig builds the configuration from defaults, then the YAML file at path when given,
// then the .env files, then the process environment. Later sources win.
func loadConfig(path string, envFiles ...string) (*fileConfig, error) {
	config := newFileConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set.
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	if err := env.Parse(config.Discord); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := env.Parse(config.Log); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, nil
}

// logWriter returns where log lines go and a function to release it.
// Lines always go to stderr; they are also written to a rotating file when one is configured.
func logWriter(config *logConfig, stderr io.Writer) (io.Writer, func() error) {
	if config.File == "" {
		return stderr, func() error { return nil }
	}

	file := &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
		Compress:   config.Compress,
		LocalTime:  true,
	}
	return io.MultiWriter(stderr, file), file.Close
}

func newStandardLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags|log.Lmicroseconds)
}
