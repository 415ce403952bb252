package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the watcher daemon and the override client.
type Config struct {
	// ServerAddress is the gRPC address of the command surface.
	ServerAddress string `yaml:"server_addr"`
	// Timeout bounds RPC calls made by the client and HTTP calls to collaborators.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level"`
	// Sensor configures the motion sensor API.
	Sensor Sensor `yaml:"sensor"`
	// Store configures the durable key-value store.
	Store Store `yaml:"store"`
	// Cast configures the playback target.
	Cast Cast `yaml:"cast"`
	// Notify configures the notification sinks.
	Notify Notify `yaml:"notify"`
	// Detection holds the sleep thresholds.
	Detection Detection `yaml:"detection"`
}

// Sensor configures the motion sensor API client.
type Sensor struct {
	// Token is the bearer token of the sensor API.
	Token string `yaml:"token"`
	// DeviceID identifies the monitored device.
	DeviceID string `yaml:"device_id"`
	// BaseURL is the API root.
	BaseURL string `yaml:"base_url"`
}

// Store configures the durable key-value store.
type Store struct {
	// Kind is one of redis, file or memory.
	Kind string `yaml:"kind"`
	// URL is the Redis connection string.
	URL string `yaml:"url"`
	// Path is the state file used by the file store.
	Path string `yaml:"path"`
}

// Cast configures the media playback target.
type Cast struct {
	// Host is the cast device address.
	Host string `yaml:"host"`
	// Port is the cast device port.
	Port int `yaml:"port"`
	// ContentURL is the media to play.
	ContentURL string `yaml:"content_url"`
	// Volume is the playback volume in 0..1; nil means DefaultVolume.
	Volume *float64 `yaml:"volume"`
}

// Notify configures where sleep notifications go.
type Notify struct {
	// WebhookURL receives a JSON POST per notification.
	WebhookURL string `yaml:"webhook_url"`
	// Message is the notification text.
	Message string `yaml:"message"`
	// MQTT optionally mirrors notifications to a broker.
	MQTT MQTT `yaml:"mqtt"`
}

// MQTT configures the optional broker sink.
type MQTT struct {
	// Broker is the broker URL, e.g. tcp://127.0.0.1:1883. Empty disables the sink.
	Broker string `yaml:"broker"`
	// Topic receives the event payloads.
	Topic string `yaml:"topic"`
}

// Detection holds the sleep thresholds.
type Detection struct {
	// CountThreshold is the minimum number of detections inside the window.
	CountThreshold int `yaml:"count_threshold"`
	// DurationThreshold is the window length in minutes.
	DurationThreshold int `yaml:"duration_threshold"`
}

// Window returns the detection window as a duration.
func (d Detection) Window() time.Duration {
	return time.Duration(d.DurationThreshold) * time.Minute
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "sleep-watch-settings.yaml"
	// DefaultStateFilename is the default file of the file store.
	DefaultStateFilename = "sleep-watch-state.json"
	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second
	// DefaultFilePermissions is used for settings and state files.
	DefaultFilePermissions = 0o600
	// DefaultSensorBaseURL is the public sensor API root.
	DefaultSensorBaseURL = "https://api.nature.global"
	// DefaultStoreKind is the store used when none is configured.
	DefaultStoreKind = "redis"
	// DefaultCastPort is the standard cast control port.
	DefaultCastPort = 8009
	// DefaultVolume is the playback volume.
	DefaultVolume = 0.5
	// DefaultMessage is the notification text.
	DefaultMessage = "Sleep detected."
	// DefaultMQTTTopic is the topic of MQTT notifications.
	DefaultMQTTTopic = "sleep-watch/events"
	// DefaultCountThreshold is the default number of detections.
	DefaultCountThreshold = 5
	// DefaultDurationThreshold is the default window in minutes.
	DefaultDurationThreshold = 15
)

var (
	// ErrConfigMissing is returned when a required setting is absent.
	ErrConfigMissing = errors.New("required setting is missing")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errOutOfRange is returned for numeric settings outside their domain.
	errOutOfRange = errors.New("setting is out of range")
)

// Load reads configuration from path, expands environment references and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadClient reads configuration for the override client, which needs only
// the server address and timeout.
func LoadClient(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := validateServer(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// read decodes the settings file without validating it.
func read(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(contents))), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required settings and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validateServer(cfg); err != nil {
		return err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	validators := []func(*Config) error{
		validateSensor,
		validateStore,
		validateCast,
		validateNotify,
		validateDetection,
	}

	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return err
		}
	}

	return nil
}

func validateServer(cfg *Config) error {
	if cfg.ServerAddress == "" {
		return missing("server_addr")
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

func validateSensor(cfg *Config) error {
	if cfg.Sensor.Token == "" {
		return missing("sensor.token")
	}

	if cfg.Sensor.DeviceID == "" {
		return missing("sensor.device_id")
	}

	if cfg.Sensor.BaseURL == "" {
		cfg.Sensor.BaseURL = DefaultSensorBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.Sensor.BaseURL); err != nil {
		return fmt.Errorf("invalid sensor base URL: %w", err)
	}

	return nil
}

func validateStore(cfg *Config) error {
	cfg.Store.Kind = strings.ToLower(cfg.Store.Kind)
	if cfg.Store.Kind == "" {
		cfg.Store.Kind = DefaultStoreKind
	}

	switch cfg.Store.Kind {
	case "redis":
		if cfg.Store.URL == "" {
			return missing("store.url")
		}
	case "file":
		if cfg.Store.Path == "" {
			cfg.Store.Path = DefaultStateFilename
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store kind %q: %w", cfg.Store.Kind, errOutOfRange)
	}

	return nil
}

func validateCast(cfg *Config) error {
	if cfg.Cast.Host == "" {
		return missing("cast.host")
	}

	if cfg.Cast.ContentURL == "" {
		return missing("cast.content_url")
	}

	if cfg.Cast.Port <= 0 {
		cfg.Cast.Port = DefaultCastPort
	}

	if cfg.Cast.Volume == nil {
		volume := DefaultVolume
		cfg.Cast.Volume = &volume
	}

	if v := *cfg.Cast.Volume; v < 0 || v > 1 {
		return fmt.Errorf("cast.volume %v: %w", v, errOutOfRange)
	}

	return nil
}

func validateNotify(cfg *Config) error {
	if cfg.Notify.WebhookURL == "" {
		return missing("notify.webhook_url")
	}

	if _, err := url.ParseRequestURI(cfg.Notify.WebhookURL); err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	if cfg.Notify.Message == "" {
		cfg.Notify.Message = DefaultMessage
	}

	if cfg.Notify.MQTT.Broker != "" && cfg.Notify.MQTT.Topic == "" {
		cfg.Notify.MQTT.Topic = DefaultMQTTTopic
	}

	return nil
}

func validateDetection(cfg *Config) error {
	if cfg.Detection.CountThreshold == 0 {
		cfg.Detection.CountThreshold = DefaultCountThreshold
	}

	if cfg.Detection.DurationThreshold == 0 {
		cfg.Detection.DurationThreshold = DefaultDurationThreshold
	}

	if cfg.Detection.CountThreshold < 0 {
		return fmt.Errorf("detection.count_threshold %d: %w", cfg.Detection.CountThreshold, errOutOfRange)
	}

	if cfg.Detection.DurationThreshold < 0 {
		return fmt.Errorf("detection.duration_threshold %d: %w", cfg.Detection.DurationThreshold, errOutOfRange)
	}

	return nil
}

// missing wraps ErrConfigMissing with the setting name.
func missing(name string) error {
	return fmt.Errorf("%s: %w", name, ErrConfigMissing)
}
