// SPDX-License-Identifier: MIT

// Package config loads the reference host's configuration: listener
// addresses, which topic-key representation to run the datastore with,
// and log level/format. It has nothing to do with the broker core's own
// behaviour — every field here is ambient, host-side configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ListenerConfig is the address a single transport listener binds.
type ListenerConfig struct {
	Address string `yaml:"address" json:"address"`
}

// LoggingConfig selects the slog handler's level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Output string `yaml:"output" json:"output"`
}

const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config is the reference host's top-level configuration.
type Config struct {
	Listeners struct {
		TCP       *ListenerConfig `yaml:"tcp" json:"tcp"`
		Websocket *ListenerConfig `yaml:"websocket" json:"websocket"`
	} `yaml:"listeners" json:"listeners"`

	// KeyRepresentation selects the datastore's topic-key codec:
	// "packed" for the compact 8-byte representation or "string" for
	// the unbounded owned-string fallback.
	KeyRepresentation string `yaml:"key_representation" json:"key_representation"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// Default returns the configuration the reference host runs with when
// no config file is present: a plain TCP listener on :1883, no
// WebSocket listener, the packed key representation, and info-level
// text logging.
func Default() *Config {
	c := &Config{KeyRepresentation: "packed"}
	c.Listeners.TCP = &ListenerConfig{Address: ":1883"}
	c.Logging = LoggingConfig{Level: "info", Output: OutputText}
	return c
}

// Logger builds the slog.Logger this configuration describes.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch c.Logging.Output {
	case OutputJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Validate reports a descriptive error if the configuration names
// something the reference host cannot act on.
func (c *Config) Validate() error {
	switch c.KeyRepresentation {
	case "packed", "string":
	default:
		return fmt.Errorf("config: unrecognised key_representation %q (want \"packed\" or \"string\")", c.KeyRepresentation)
	}
	if c.Listeners.TCP == nil && c.Listeners.Websocket == nil {
		return fmt.Errorf("config: at least one of listeners.tcp or listeners.websocket must be set")
	}
	return nil
}
