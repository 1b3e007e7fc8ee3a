package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "abhishekck31", cfg.Profile.GitHubHandle)
	assert.Equal(t, "Gk8PxPysf4", cfg.Profile.LeetCodeHandle)
	assert.Equal(t, 50, cfg.Profile.TUFSolved)
	assert.Equal(t, "https://leetcode-stats-api.herokuapp.com", cfg.Stats.LeetCodeBaseURL)
	assert.Equal(t, 2*time.Second, cfg.Stats.RenderWait)
	assert.Equal(t, 32, cfg.Stats.PoolSize)
	assert.Equal(t, int32(4), cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.ConnectTimeout)
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
app:
  port: "9000"
profile:
  github_handle: octocat
  tuf_solved: 120
stats:
  render_wait: 500ms
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("LEETCODE_HANDLE", "from-env")
	t.Setenv("APP_PORT", "9100")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.App.Port)
	assert.Equal(t, "octocat", cfg.Profile.GitHubHandle)
	assert.Equal(t, "from-env", cfg.Profile.LeetCodeHandle)
	assert.Equal(t, 120, cfg.Profile.TUFSolved)
	assert.Equal(t, 500*time.Millisecond, cfg.Stats.RenderWait)
}

func TestConfig_OwnerUUID(t *testing.T) {
	var cfg Config
	cfg.App.BaseURL = "http://localhost:8080"

	derived, err := cfg.OwnerUUID()
	require.NoError(t, err)
	again, err := cfg.OwnerUUID()
	require.NoError(t, err)
	assert.Equal(t, derived, again)

	cfg.Auth.OwnerID = "6b1f1c1e-8a3d-4b0e-9f57-0c7d2d5e9a11"
	id, err := cfg.OwnerUUID()
	require.NoError(t, err)
	assert.Equal(t, cfg.Auth.OwnerID, id.String())

	cfg.Auth.OwnerID = "not-a-uuid"
	_, err = cfg.OwnerUUID()
	assert.Error(t, err)
}
