package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "guestbot/core/config"
)

func validConfig() *Config {
	return &Config{
		Core: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{
				Token:    "123:abc",
				AdminIDs: []int64{785773730, 755365654},
			},
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, StorageBackendFile, cfg.Storage.Backend)
	assert.Equal(t, "data/guests.json", cfg.Storage.File)
	assert.Equal(t, "content", cfg.Content.Dir)
	assert.Equal(t, "about_event.txt", cfg.Content.AboutFile)
	assert.Equal(t, "event_program.txt", cfg.Content.ProgramFile)
	assert.Equal(t, 30*time.Minute, cfg.ConversationTTL())
}

func TestNormalizeRejectsUnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = "redis"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizePostgresRequiresHostAndName(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = StorageBackendPostgres
	assert.Error(t, Normalize(cfg))

	cfg.Storage.Postgres.Host = "localhost"
	assert.Error(t, Normalize(cfg))

	cfg.Storage.Postgres.Name = "guestbot"
	assert.NoError(t, Normalize(cfg))
}

func TestNormalizeNegativeTTLRejected(t *testing.T) {
	cfg := validConfig()
	cfg.Conversation.TTLMinutes = -1
	assert.Error(t, Normalize(cfg))
}

func TestNormalizePropagatesCoreValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Core.Telegram.AdminIDs = nil
	assert.Error(t, Normalize(cfg))
}
