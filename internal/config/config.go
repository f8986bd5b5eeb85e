// Package config loads server settings from the environment and flags.
package config

import (
    "flag"
    "fmt"
    "io"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Config holds everything cmd/tictactoe needs to start.
type Config struct {
    Addr            string
    Difficulty      engine.Difficulty
    ThinkDelay      time.Duration
    LogLevel        zerolog.Level
    LogFormat       string
    KafkaBrokers    []string
    KafkaTopic      string
    ShutdownTimeout time.Duration
}

// Load reads the environment through getenv, then applies flags from args.
// Flags win over environment variables.
func Load(args []string, getenv func(string) string) (Config, error) {
    if getenv == nil {
        getenv = os.Getenv
    }
    env := func(key, fallback string) string {
        if v := getenv(key); v != "" {
            return v
        }
        return fallback
    }

    addr := env("ADDR", ":8080")
    // PORT is what most hosting platforms set.
    if port := getenv("PORT"); port != "" {
        addr = ":" + port
    }

    fs := flag.NewFlagSet("tictactoe", flag.ContinueOnError)
    fs.SetOutput(io.Discard)
    fAddr := fs.String("addr", addr, "listen address")
    fDifficulty := fs.String("difficulty", env("DIFFICULTY", engine.Hard.String()), "default difficulty: Easy, Medium or Hard")
    fDelay := fs.String("think-delay", env("AI_THINK_DELAY", "0s"), "pause before the AI replies")
    fLevel := fs.String("log-level", env("LOG_LEVEL", "info"), "log level")
    fFormat := fs.String("log-format", env("LOG_FORMAT", "json"), "log format: json or console")
    fBrokers := fs.String("kafka-brokers", env("KAFKA_BROKERS", ""), "comma separated Kafka brokers; empty disables events")
    fTopic := fs.String("kafka-topic", env("KAFKA_TOPIC", "tictactoe-events"), "Kafka topic for game events")
    fShutdown := fs.String("shutdown-timeout", env("SHUTDOWN_TIMEOUT", "10s"), "graceful shutdown timeout")
    if err := fs.Parse(args); err != nil {
        return Config{}, fmt.Errorf("parse flags: %w", err)
    }

    cfg := Config{
        Addr:       *fAddr,
        LogFormat:  strings.ToLower(*fFormat),
        KafkaTopic: *fTopic,
    }
    var err error
    if cfg.Difficulty, err = engine.ParseDifficulty(*fDifficulty); err != nil {
        return Config{}, fmt.Errorf("difficulty: %w", err)
    }
    if cfg.ThinkDelay, err = parseDuration(*fDelay); err != nil {
        return Config{}, fmt.Errorf("think delay: %w", err)
    }
    if cfg.ShutdownTimeout, err = parseDuration(*fShutdown); err != nil {
        return Config{}, fmt.Errorf("shutdown timeout: %w", err)
    }
    if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(*fLevel)); err != nil {
        return Config{}, fmt.Errorf("log level: %w", err)
    }
    if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
        return Config{}, fmt.Errorf("log format: unknown %q", cfg.LogFormat)
    }
    for _, b := range strings.Split(*fBrokers, ",") {
        if b = strings.TrimSpace(b); b != "" {
            cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
        }
    }
    return cfg, nil
}

// parseDuration accepts Go durations ("500ms") or plain seconds ("2").
func parseDuration(s string) (time.Duration, error) {
    var d time.Duration
    if n, err := strconv.Atoi(s); err == nil {
        d = time.Duration(n) * time.Second
    } else if d, err = time.ParseDuration(s); err != nil {
        return 0, err
    }
    if d < 0 {
        return 0, fmt.Errorf("negative duration %s", s)
    }
    return d, nil
}

// Logger builds the root logger writing to w.
func (c Config) Logger(w io.Writer) zerolog.Logger {
    if c.LogFormat == "console" {
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
    }
    return zerolog.New(w).Level(c.LogLevel).With().Timestamp().Logger()
}
