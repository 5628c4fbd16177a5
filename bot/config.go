package bot

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "guestbot/core/config"
	coredatabase "guestbot/core/database"
)

// Storage backends for the guest registry.
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// StorageConfig selects and configures the registry store.
type StorageConfig struct {
	Backend  string              `yaml:"backend" envconfig:"STORAGE_BACKEND"`
	File     string              `yaml:"file" envconfig:"STORAGE_FILE"`
	Postgres coredatabase.Config `yaml:"postgres"`
}

// ContentConfig points at the static event texts served by reply buttons.
type ContentConfig struct {
	Dir         string `yaml:"dir" envconfig:"CONTENT_DIR"`
	AboutFile   string `yaml:"about_file"`
	ProgramFile string `yaml:"program_file"`
}

// ConversationConfig bounds how long an unfinished form survives.
type ConversationConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" envconfig:"CONVERSATION_TTL_MINUTES"`
}

// Config aggregates core settings with guest-bot specific sections.
type Config struct {
	Core         coreconfig.Config  `yaml:",inline"`
	Storage      StorageConfig      `yaml:"storage"`
	Content      ContentConfig      `yaml:"content"`
	Conversation ConversationConfig `yaml:"conversation"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// ConversationTTL returns the configured session lifetime.
func (c *Config) ConversationTTL() time.Duration {
	return time.Duration(c.Conversation.TTLMinutes) * time.Minute
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and adjusts defaults on top of the
// core normalization.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if backend == "" {
		backend = StorageBackendFile
	}
	switch backend {
	case StorageBackendFile:
		if strings.TrimSpace(cfg.Storage.File) == "" {
			cfg.Storage.File = "data/guests.json"
		}
	case StorageBackendPostgres:
		if strings.TrimSpace(cfg.Storage.Postgres.Host) == "" {
			return fmt.Errorf("storage.postgres.host is required when storage.backend is 'postgres'")
		}
		if strings.TrimSpace(cfg.Storage.Postgres.Name) == "" {
			return fmt.Errorf("storage.postgres.name is required when storage.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid storage.backend %q; allowed: file, postgres", cfg.Storage.Backend)
	}
	cfg.Storage.Backend = backend

	if strings.TrimSpace(cfg.Content.Dir) == "" {
		cfg.Content.Dir = "content"
	}
	if strings.TrimSpace(cfg.Content.AboutFile) == "" {
		cfg.Content.AboutFile = "about_event.txt"
	}
	if strings.TrimSpace(cfg.Content.ProgramFile) == "" {
		cfg.Content.ProgramFile = "event_program.txt"
	}

	if cfg.Conversation.TTLMinutes < 0 {
		return fmt.Errorf("conversation.ttl_minutes must be >= 0")
	}
	if cfg.Conversation.TTLMinutes == 0 {
		cfg.Conversation.TTLMinutes = 30
	}

	return nil
}
