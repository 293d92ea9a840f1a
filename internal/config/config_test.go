package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

const sample = `
telegram:
  token: "from-yaml"
  run_mode: longpoll
database:
  driver: sqlite
  url: ":memory:"
broadcast:
  channel_id: "-1001234567890"
metrics:
  listen: ":9090"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cfg.CoreConfig().Telegram.Token)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 1, cfg.Database.MaxConnections)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	to, err := cfg.Broadcast.Recipient()
	require.NoError(t, err)
	assert.Equal(t, tele.ChatID(-1001234567890), to)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("CHANNEL_ID", "@applications")
	t.Setenv("BOT_DB_URL", "file:apps.db")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, "file:apps.db", cfg.Database.URL)

	to, err := cfg.Broadcast.Recipient()
	require.NoError(t, err)
	assert.Equal(t, "@applications", to.Recipient())
}

func TestBroadcastRecipientValidation(t *testing.T) {
	for _, id := range []string{"", "@", "channel"} {
		_, err := BroadcastConfig{ChannelID: id}.Recipient()
		assert.Error(t, err, id)
	}
}

func TestNormalizeRejectsBadMetricsPath(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Database.Driver = "sqlite"
	cfg.Database.URL = ":memory:"
	cfg.Broadcast.ChannelID = "1"
	cfg.Metrics.Path = "metrics"
	require.Error(t, Normalize(cfg))
}
