package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// AuthConfig carries the credential used to authenticate against the cluster.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Source   string `yaml:"source,omitempty"`
}

// Enabled reports whether a credential was configured at all.
func (a AuthConfig) Enabled() bool {
	return a.Username != ""
}

// ClusterConfig describes how to reach the cluster. Either a connection URI
// or an explicit host list must be given, not both.
type ClusterConfig struct {
	URI            string     `yaml:"uri,omitempty"`
	Hosts          []string   `yaml:"hosts,omitempty"`
	Auth           AuthConfig `yaml:"auth,omitempty"`
	ConnectTimeout Duration   `yaml:"connect_timeout,omitempty"`
	CommandTimeout Duration   `yaml:"command_timeout,omitempty"`
	WriteConcern   string     `yaml:"write_concern,omitempty"`
	ReadPreference string     `yaml:"read_preference,omitempty"`
}

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig toggles metric collection.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the root configuration structure for the client.
type Config struct {
	Cluster   ClusterConfig   `yaml:"cluster"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Load reads and decodes the configuration file from disk.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Cluster.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the cluster section identifies exactly one way to
// reach the cluster.
func (c *ClusterConfig) Validate() error {
	if c.URI == "" && len(c.Hosts) == 0 {
		return fmt.Errorf("cluster config requires a uri or at least one host")
	}
	if c.URI != "" && len(c.Hosts) > 0 {
		return fmt.Errorf("cluster config must not combine uri and hosts")
	}
	return nil
}
