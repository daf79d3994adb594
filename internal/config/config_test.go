package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "k!", cfg.DefaultPrefix)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, 5*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 10*time.Minute, cfg.RedisTTL)
	assert.Equal(t, 5*time.Minute, cfg.StatusInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DEFAULT_PREFIX", "?")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_TIMEOUT", "2s")
	t.Setenv("STATUS_INTERVAL", "30s")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.DefaultPrefix)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 30*time.Second, cfg.StatusInterval)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"DISCORD_TOKEN": ""}},
		{"bad driver", map[string]string{"DISCORD_TOKEN": "t", "STORE_DRIVER": "sqlite"}},
		{"bad duration", map[string]string{"DISCORD_TOKEN": "t", "REDIS_TTL": "soon"}},
		{"zero interval", map[string]string{"DISCORD_TOKEN": "t", "STATUS_INTERVAL": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestCategoryWeight(t *testing.T) {
	assert.Less(t, CategoryWeight(CategoryInformation), CategoryWeight(CategoryRPG))
	assert.Equal(t, 1000, CategoryWeight("Inconnue"))
}

func TestNewStoreNeedsNoToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", "kyofu.json")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	s, err := NewStore()
	require.NoError(t, err)

	opts := s.StorageOptions()
	assert.Equal(t, "file", opts.Driver)
	assert.Equal(t, "kyofu.json", opts.Path)
	assert.Equal(t, "localhost:6379", opts.RedisAddr)
	assert.Equal(t, "k!", opts.DefaultPrefix)
}
