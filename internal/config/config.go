// Package config loads the application configuration: the reusable core
// settings plus database, broadcast channel and metrics endpoint.
package config

import (
	"fmt"
	"strconv"
	"strings"

	coreconfig "github.com/m3rciful/applybot/core/config"
	coredatabase "github.com/m3rciful/applybot/core/database"

	tele "gopkg.in/telebot.v4"
)

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database  coredatabase.Config `yaml:"database"`
	Broadcast BroadcastConfig     `yaml:"broadcast"`
	Metrics   MetricsConfig       `yaml:"metrics"`
}

// BroadcastConfig points at the channel receiving submission summaries.
// ChannelID is either a numeric chat id (-100...) or a public @username.
type BroadcastConfig struct {
	ChannelID string `yaml:"channel_id" envconfig:"CHANNEL_ID"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Listen disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
	Path   string `yaml:"path" envconfig:"METRICS_PATH"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads YAML at path, overlays the environment, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.ReadFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return err
	}
	cfg.Broadcast.ChannelID = strings.TrimSpace(cfg.Broadcast.ChannelID)
	if _, err := cfg.Broadcast.Recipient(); err != nil {
		return err
	}
	cfg.Metrics.Listen = strings.TrimSpace(cfg.Metrics.Listen)
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}
	return nil
}

type channelName string

func (c channelName) Recipient() string { return string(c) }

// Recipient resolves ChannelID into a telebot recipient.
func (b BroadcastConfig) Recipient() (tele.Recipient, error) {
	id := b.ChannelID
	switch {
	case id == "":
		return nil, fmt.Errorf("broadcast.channel_id is required")
	case strings.HasPrefix(id, "@") && len(id) > 1:
		return channelName(id), nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid broadcast.channel_id %q: want a numeric id or @username", id)
	}
	return tele.ChatID(n), nil
}
