package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// maxRelays is the widest relay table the packed state snapshot can hold.
const maxRelays = 64

// Config is the root configuration structure for relaycore.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Relays      RelaysConfig      `yaml:"relays"`
	Indicator   IndicatorConfig   `yaml:"indicator"`
	Persistence PersistenceConfig `yaml:"persistence"`
	History     HistoryConfig     `yaml:"history"`
	Database    DatabaseConfig    `yaml:"database"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// RelaysConfig describes the relay bank: which GPIO chip it hangs off,
// the electrical polarity of the driver stage, and the fixed line table.
type RelaysConfig struct {
	Chip       string            `yaml:"chip"`
	ActiveLow  bool              `yaml:"active_low"`
	OpenDrain  bool              `yaml:"open_drain"`
	DefaultOn  bool              `yaml:"default_on"`
	DebounceMS int               `yaml:"debounce_ms"`
	Lines      []RelayLineConfig `yaml:"lines"`
}

// RelayLineConfig is one entry in the relay table. The entry's position in
// the list is the relay's index everywhere: API paths, MQTT topics, the
// persisted bitmask.
type RelayLineConfig struct {
	Line int    `yaml:"line"`
	Name string `yaml:"name"`
}

// IndicatorConfig contains status LED settings. The LED pulses after every
// successful state change.
type IndicatorConfig struct {
	Enabled bool `yaml:"enabled"`
	Line    int  `yaml:"line"`
	PulseMS int  `yaml:"pulse_ms"`
	Pulses  int  `yaml:"pulses"`
}

// PersistenceConfig toggles durable relay state snapshots.
type PersistenceConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HistoryConfig contains state-change history settings.
type HistoryConfig struct {
	Enabled       bool `yaml:"enabled"`
	RetentionDays int  `yaml:"retention_days"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	KeepAlive bool             `yaml:"keep_alive"`
	Timeouts  APITimeoutConfig `yaml:"timeouts"`
	CORS      CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for state telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: RELAYCORE_SECTION_KEY
// For example: RELAYCORE_DATABASE_PATH, RELAYCORE_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
//
// The default relay table matches the reference four-channel board: two
// lighting circuits and two fan circuits on an active-low open-drain driver.
func defaultConfig() *Config {
	return &Config{
		Relays: RelaysConfig{
			Chip:       "gpiochip0",
			ActiveLow:  true,
			OpenDrain:  true,
			DefaultOn:  false,
			DebounceMS: 50,
			Lines: []RelayLineConfig{
				{Line: 16, Name: "Light 1"},
				{Line: 17, Name: "Light 2"},
				{Line: 18, Name: "Fan 1"},
				{Line: 19, Name: "Fan 2"},
			},
		},
		Indicator: IndicatorConfig{
			Enabled: true,
			Line:    2,
			PulseMS: 50,
			Pulses:  1,
		},
		Persistence: PersistenceConfig{
			Enabled: true,
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 30,
		},
		Database: DatabaseConfig{
			Path:        "./data/relaycore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			KeepAlive: true,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Enabled:     false,
			TopicPrefix: "relaycore",
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "relaycore",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: RELAYCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("RELAYCORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("RELAYCORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("RELAYCORE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("RELAYCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RELAYCORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RELAYCORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("RELAYCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("RELAYCORE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Relay table validation
	if c.Relays.Chip == "" {
		errs = append(errs, "relays.chip is required")
	}
	if len(c.Relays.Lines) == 0 {
		errs = append(errs, "relays.lines must contain at least one entry")
	}
	if len(c.Relays.Lines) > maxRelays {
		errs = append(errs, fmt.Sprintf("relays.lines must not exceed %d entries", maxRelays))
	}
	if c.Relays.DebounceMS < 0 {
		errs = append(errs, "relays.debounce_ms must not be negative")
	}
	seen := make(map[int]bool, len(c.Relays.Lines))
	for i, line := range c.Relays.Lines {
		if line.Line < 0 {
			errs = append(errs, fmt.Sprintf("relays.lines[%d].line must not be negative", i))
		}
		if line.Name == "" {
			errs = append(errs, fmt.Sprintf("relays.lines[%d].name is required", i))
		}
		if seen[line.Line] {
			errs = append(errs, fmt.Sprintf("relays.lines[%d].line %d is already in use", i, line.Line))
		}
		seen[line.Line] = true
	}

	// Indicator validation
	if c.Indicator.Enabled {
		if c.Indicator.Line < 0 {
			errs = append(errs, "indicator.line must not be negative")
		}
		if seen[c.Indicator.Line] {
			errs = append(errs, "indicator.line conflicts with a relay line")
		}
		if c.Indicator.PulseMS <= 0 {
			errs = append(errs, "indicator.pulse_ms must be positive")
		}
		if c.Indicator.Pulses <= 0 {
			errs = append(errs, "indicator.pulses must be positive")
		}
	}

	// Database validation: the database is only opened when something
	// durable is enabled.
	if (c.Persistence.Enabled || c.History.Enabled) && c.Database.Path == "" {
		errs = append(errs, "database.path is required when persistence or history is enabled")
	}
	if c.History.Enabled && c.History.RetentionDays <= 0 {
		errs = append(errs, "history.retention_days must be positive")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetDebounceWindow returns the toggle debounce window as a Duration.
func (c *Config) GetDebounceWindow() time.Duration {
	return time.Duration(c.Relays.DebounceMS) * time.Millisecond
}

// GetIndicatorPulse returns the indicator pulse width as a Duration.
func (c *Config) GetIndicatorPulse() time.Duration {
	return time.Duration(c.Indicator.PulseMS) * time.Millisecond
}

// GetHistoryRetention returns the history retention period as a Duration.
func (c *Config) GetHistoryRetention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
