package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			ShutdownGrace: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Save: SaveConfig{
			Path: "data/save.json",
		},
		Game: GameConfig{
			TickInterval: time.Minute,
			LevelCap:     80,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestHTTPAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
http:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5s
logging:
  level: debug
  format: console
save:
  path: /tmp/summoner/save.json
game:
  tick_interval: 30s
  seed: 42
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/summoner/save.json", cfg.Save.Path)
	assert.Equal(t, 30*time.Second, cfg.Game.TickInterval)
	assert.Equal(t, uint64(42), cfg.Game.Seed)
	assert.Equal(t, 80, cfg.Game.LevelCap, "default fills the omitted knob")
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateSavePathEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Save.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateTickInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Game.TickInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateLevelCap(t *testing.T) {
	cfg := validConfig()
	cfg.Game.LevelCap = 0
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.HTTP.Port = port
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Generate ports outside valid range
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.HTTP.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyTickIntervalPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secs := rapid.IntRange(1, 3600).Draw(t, "secs")
		cfg := validConfig()
		cfg.Game.TickInterval = time.Duration(secs) * time.Second
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid tick interval %ds rejected: %v", secs, err)
		}
	})
}
