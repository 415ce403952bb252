package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// validConfig returns settings that pass Validate.
func validConfig() *Config {
	return &Config{
		ServerAddress: "127.0.0.1:50051",
		Sensor: Sensor{
			Token:    "token",
			DeviceID: "device",
		},
		Store: Store{
			Kind: "redis",
			URL:  "redis://127.0.0.1:6379/0",
		},
		Cast: Cast{
			Host:       "192.168.1.20",
			ContentURL: "https://media.local/wake.mp3",
		},
		Notify: Notify{
			WebhookURL: "https://hooks.local/abc",
		},
	}
}

// TestValidate_Defaults checks that optional settings receive their defaults.
func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, DefaultSensorBaseURL, cfg.Sensor.BaseURL)
	require.Equal(t, DefaultCastPort, cfg.Cast.Port)
	require.NotNil(t, cfg.Cast.Volume)
	require.InDelta(t, DefaultVolume, *cfg.Cast.Volume, 1e-9)
	require.Equal(t, DefaultMessage, cfg.Notify.Message)
	require.Empty(t, cfg.Notify.MQTT.Topic)
	require.Equal(t, DefaultCountThreshold, cfg.Detection.CountThreshold)
	require.Equal(t, 15*time.Minute, cfg.Detection.Window())
}

// TestValidate_Missing verifies each required setting fails with ErrConfigMissing.
func TestValidate_Missing(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"server_addr":        func(c *Config) { c.ServerAddress = "" },
		"sensor.token":       func(c *Config) { c.Sensor.Token = "" },
		"sensor.device_id":   func(c *Config) { c.Sensor.DeviceID = "" },
		"store.url":          func(c *Config) { c.Store.URL = "" },
		"cast.host":          func(c *Config) { c.Cast.Host = "" },
		"cast.content_url":   func(c *Config) { c.Cast.ContentURL = "" },
		"notify.webhook_url": func(c *Config) { c.Notify.WebhookURL = "" },
	}

	for name, mutate := range cases {
		cfg := validConfig()
		mutate(cfg)

		err := Validate(cfg)
		require.ErrorIs(t, err, ErrConfigMissing, name)
		require.Contains(t, err.Error(), name)
	}
}

// TestValidate_Invalid covers malformed and out-of-range values.
func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	cfg := validConfig()
	cfg.ServerAddress = "bad:address"
	require.Error(t, Validate(cfg))

	cfg = validConfig()
	loud := 1.5
	cfg.Cast.Volume = &loud
	require.ErrorIs(t, Validate(cfg), errOutOfRange)

	cfg = validConfig()
	cfg.Store.Kind = "etcd"
	require.ErrorIs(t, Validate(cfg), errOutOfRange)

	cfg = validConfig()
	cfg.Detection.CountThreshold = -1
	require.ErrorIs(t, Validate(cfg), errOutOfRange)

	cfg = validConfig()
	cfg.Notify.WebhookURL = "not a url"
	require.Error(t, Validate(cfg))
}

// TestValidate_FileStoreNeedsNoURL ensures non-Redis stores do not require a URL.
func TestValidate_FileStoreNeedsNoURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Store = Store{Kind: "FILE"}

	require.NoError(t, Validate(cfg))
	require.Equal(t, "file", cfg.Store.Kind)
	require.Equal(t, DefaultStateFilename, cfg.Store.Path)

	cfg = validConfig()
	cfg.Notify.MQTT.Broker = "tcp://127.0.0.1:1883"
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultMQTTTopic, cfg.Notify.MQTT.Topic)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := validConfig()
	quiet := 0.0
	cfg.Cast.Volume = &quiet

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ServerAddress, loaded.ServerAddress)
	require.Equal(t, cfg.Sensor, loaded.Sensor)
	require.Equal(t, cfg.Store, loaded.Store)
	require.InDelta(t, 0.0, *loaded.Cast.Volume, 1e-9)

	_, err = os.Stat(path)
	require.NoError(t, err)

	require.Error(t, Save(path, nil))
}

// TestLoad_ExpandsEnvironment verifies ${VAR} references are resolved before decoding.
func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SLEEP_WATCH_TEST_TOKEN", "from-env")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := `server_addr: 127.0.0.1:50051
sensor:
  token: ${SLEEP_WATCH_TEST_TOKEN}
  device_id: device
store:
  kind: memory
cast:
  host: 192.168.1.20
  content_url: https://media.local/wake.mp3
notify:
  webhook_url: https://hooks.local/abc
detection:
  count_threshold: 3
  duration_threshold: 10
`
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Sensor.Token)
	require.Equal(t, 3, cfg.Detection.CountThreshold)
	require.Equal(t, 10*time.Minute, cfg.Detection.Window())
}

// TestLoadClient requires only the server address.
func TestLoadClient(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_addr: 127.0.0.1:50051\n"), DefaultFilePermissions))

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, cfg.Timeout)

	_, err = Load(path)
	require.ErrorIs(t, err, ErrConfigMissing)

	_, err = LoadClient(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
