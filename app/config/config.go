// Package config loads the bot configuration: the reusable core settings plus
// database, membership gate, broadcast and session settings.
package config

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/kycbot/core/config"
	coredatabase "github.com/m3rciful/kycbot/core/database"
)

const (
	// SessionMemory keeps session state in process memory.
	SessionMemory = "memory"
	// SessionRedis keeps session state in redis with a TTL.
	SessionRedis = "redis"

	defaultBroadcastDelay = 100 * time.Millisecond
	defaultFrameDelay     = 700 * time.Millisecond
	defaultSessionTTL     = 24 * time.Hour
)

// GateConfig lists the channels a user must belong to.
type GateConfig struct {
	Channels []string `yaml:"channels" envconfig:"CHANNEL_USERNAMES"`
	// Links are the join URLs, one per channel. Missing links default to https://t.me/<name>.
	Links []string `yaml:"links" envconfig:"CHANNEL_LINKS"`
}

// BroadcastConfig controls broadcast pacing.
type BroadcastConfig struct {
	DelayMS int `yaml:"delay_ms" envconfig:"BROADCAST_DELAY_MS"`
	Workers int `yaml:"workers" envconfig:"BROADCAST_WORKERS"`
}

// Delay returns the minimum spacing between two sends.
func (b BroadcastConfig) Delay() time.Duration {
	return time.Duration(b.DelayMS) * time.Millisecond
}

// ActivationConfig controls the activation animation.
type ActivationConfig struct {
	FrameDelayMS int `yaml:"frame_delay_ms" envconfig:"ACTIVATION_FRAME_DELAY_MS"`
}

// FrameDelay returns the pause between progress frames.
func (a ActivationConfig) FrameDelay() time.Duration {
	return time.Duration(a.FrameDelayMS) * time.Millisecond
}

// SessionConfig selects the session state backend.
type SessionConfig struct {
	Backend    string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	RedisURL   string `yaml:"redis_url" envconfig:"REDIS_URL"`
	TTLSeconds int    `yaml:"ttl_seconds" envconfig:"SESSION_TTL_SECONDS"`
}

// TTL returns how long an armed state survives in redis.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

// ContactConfig feeds the /contactus card.
type ContactConfig struct {
	Email      string `yaml:"email" envconfig:"CONTACT_EMAIL"`
	Hours      string `yaml:"hours" envconfig:"CONTACT_HOURS"`
	AdminURL   string `yaml:"admin_url" envconfig:"CONTACT_ADMIN_URL"`
	NewsURL    string `yaml:"news_url" envconfig:"CONTACT_NEWS_URL"`
	SupportURL string `yaml:"support_url" envconfig:"CONTACT_SUPPORT_URL"`
}

// Config is the complete bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database   coredatabase.Config `yaml:"database"`
	Gate       GateConfig          `yaml:"gate"`
	Broadcast  BroadcastConfig     `yaml:"broadcast"`
	Activation ActivationConfig    `yaml:"activation"`
	Session    SessionConfig       `yaml:"session"`
	Contact    ContactConfig       `yaml:"contact"`
}

// CoreConfig returns the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads path (empty means environment only) and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.ReadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the application sections and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if err := normalizeGate(&cfg.Gate); err != nil {
		return err
	}

	if cfg.Broadcast.DelayMS < 0 {
		return fmt.Errorf("broadcast.delay_ms must be >= 0")
	}
	if cfg.Broadcast.DelayMS == 0 {
		cfg.Broadcast.DelayMS = int(defaultBroadcastDelay / time.Millisecond)
	}
	if cfg.Broadcast.Workers < 0 {
		return fmt.Errorf("broadcast.workers must be >= 0")
	}
	if cfg.Broadcast.Workers == 0 {
		cfg.Broadcast.Workers = 1
	}

	if cfg.Activation.FrameDelayMS < 0 {
		return fmt.Errorf("activation.frame_delay_ms must be >= 0")
	}
	if cfg.Activation.FrameDelayMS == 0 {
		cfg.Activation.FrameDelayMS = int(defaultFrameDelay / time.Millisecond)
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	switch backend {
	case "":
		backend = SessionMemory
	case SessionMemory:
	case SessionRedis:
		if strings.TrimSpace(cfg.Session.RedisURL) == "" {
			return fmt.Errorf("session.redis_url is required when session.backend is 'redis'")
		}
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: memory, redis", cfg.Session.Backend)
	}
	cfg.Session.Backend = backend
	if cfg.Session.TTLSeconds < 0 {
		return fmt.Errorf("session.ttl_seconds must be >= 0")
	}
	if cfg.Session.TTLSeconds == 0 {
		cfg.Session.TTLSeconds = int(defaultSessionTTL / time.Second)
	}
	return nil
}

func normalizeGate(g *GateConfig) error {
	channels := make([]string, 0, len(g.Channels))
	for _, ch := range g.Channels {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		if !strings.HasPrefix(ch, "@") {
			ch = "@" + ch
		}
		channels = append(channels, ch)
	}
	if len(g.Links) > len(channels) {
		return fmt.Errorf("gate.links has %d entries for %d channels", len(g.Links), len(channels))
	}
	links := make([]string, len(channels))
	for i, ch := range channels {
		if i < len(g.Links) && strings.TrimSpace(g.Links[i]) != "" {
			links[i] = strings.TrimSpace(g.Links[i])
			continue
		}
		links[i] = "https://t.me/" + strings.TrimPrefix(ch, "@")
	}
	g.Channels = channels
	g.Links = links
	return nil
}
