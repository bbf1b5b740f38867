package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Setenv("YT_TEST_KEY", "")
	require.Equal(t, "from-config", getConfigValue("from-config", "YT_TEST_KEY", "default"))
	require.Equal(t, "default", getConfigValue("YOUR_API_KEY", "YT_TEST_KEY", "default"))

	t.Setenv("YT_TEST_KEY", "from-env")
	require.Equal(t, "from-env", getConfigValue("from-config", "YT_TEST_KEY", "default"))
}

func TestGetYouTubeConfig(t *testing.T) {
	saved := C
	t.Cleanup(func() { C = saved })

	t.Setenv("YOUTUBE_API_KEY", "")
	C.YouTube = YouTube{APIKey: "cfg-key", RequestsPerSecond: 5}
	cfg := GetYouTubeConfig()
	require.Equal(t, "cfg-key", cfg.APIKey)
	require.Equal(t, 5.0, cfg.RequestsPerSecond)
	require.True(t, cfg.HasCredential())

	t.Setenv("YOUTUBE_API_KEY", "env-key")
	require.Equal(t, "env-key", GetYouTubeConfig().APIKey)
}

func TestInitApp_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TLS_ENABLED", "true")

	cfg := &Config{}
	initApp(cfg)

	require.Equal(t, 10001, cfg.App.Port)
	require.Equal(t, "s3cret", cfg.App.SecretKey)
	require.True(t, cfg.App.TLSEnabled)

	t.Setenv("PORT", "8080")
	initApp(cfg)
	require.Equal(t, 8080, cfg.App.Port)
}

func TestInitExtraction_Defaults(t *testing.T) {
	t.Setenv("DEFAULT_MAX_VIDEOS", "")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("MEMCACHED_URL", "a:11211,b:11211")

	cfg := &Config{}
	initExtraction(cfg)

	require.Equal(t, 100, cfg.Extraction.DefaultMaxVideos)
	require.Equal(t, "redis", cfg.Cache.Backend)
	require.Equal(t, []string{"a:11211", "b:11211"}, cfg.Memcached.Servers)
	require.Equal(t, "Sheet1", cfg.GoogleSheet.SheetName)
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nYT_ENV_A=alpha\nYT_ENV_B=\"beta\"\n"), 0o600))
	t.Setenv("YT_ENV_B", "preset")
	t.Setenv("YT_ENV_A", "")
	require.NoError(t, os.Unsetenv("YT_ENV_A"))

	LoadEnvFromFile(filepath.Join(dir, "missing.env"), path)

	require.Equal(t, "alpha", os.Getenv("YT_ENV_A"))
	require.Equal(t, "preset", os.Getenv("YT_ENV_B"))
}
