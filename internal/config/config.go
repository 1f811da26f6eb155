package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the immutable application configuration. It is loaded once and
// threaded explicitly through runner, collectors and server construction.
type Config struct {
	Target struct {
		// Mode selects the remote-exec channel: "ssh" or "local".
		Mode                  string `yaml:"mode"`
		Host                  string `yaml:"host"`
		Port                  int    `yaml:"port"`
		User                  string `yaml:"user"`
		KeyPath               string `yaml:"key_path"`
		KnownHosts            string `yaml:"known_hosts"`
		StrictHostKey         bool   `yaml:"strict_host_key"`
		ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
	} `yaml:"target"`
	Exec struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		// NoSudo disables superuser elevation of remote commands.
		NoSudo bool `yaml:"no_sudo"`
	} `yaml:"exec"`
	Server struct {
		Addr string `yaml:"addr"`
		// AuthToken comes from secrets.env or the environment, never YAML.
		AuthToken string `yaml:"-"`
	} `yaml:"server"`
	Store struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"store"`
	Telemetry struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"telemetry"`
	// Debug enables pretty-printed envelopes and verbose output logging.
	Debug bool `yaml:"debug"`
}

// DefaultPath resolves $XDG_CONFIG_HOME/hostprobe/config.yaml or
// ~/.config/hostprobe/config.yaml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "hostprobe", "config.yaml")
}

// Load reads YAML configuration from a path, falling back to the default
// location when path is empty, and merges secrets from secrets.env.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultPath()
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	secrets, _ := LoadSecretsEnv("")
	if v := os.Getenv("HOSTPROBE_API_TOKEN"); v != "" {
		secrets["HOSTPROBE_API_TOKEN"] = v
	}
	if t, ok := secrets["HOSTPROBE_API_TOKEN"]; ok && t != "" {
		cfg.Server.AuthToken = t
	}
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.Target.Mode == "" {
		c.Target.Mode = "ssh"
	}
	if c.Target.Host == "" {
		c.Target.Host = "localhost"
	}
	if c.Target.Port == 0 {
		c.Target.Port = 22
	}
	if c.Target.User == "" {
		c.Target.User = "probe"
	}
	if c.Target.ConnectTimeoutSeconds == 0 {
		c.Target.ConnectTimeoutSeconds = 3
	}
	if c.Exec.TimeoutSeconds == 0 {
		c.Exec.TimeoutSeconds = 3
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":6666"
	}
}

func (c *Config) validate() error {
	switch c.Target.Mode {
	case "ssh", "local":
	default:
		return fmt.Errorf("invalid target mode %q (want ssh or local)", c.Target.Mode)
	}
	if c.Exec.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid exec timeout %d, must be positive", c.Exec.TimeoutSeconds)
	}
	if c.Target.Port < 1 || c.Target.Port > 65535 {
		return fmt.Errorf("invalid target port %d", c.Target.Port)
	}
	return nil
}

// WriteDefault writes a commented starter config, creating directories as
// needed. Existing files are left untouched.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	return os.WriteFile(path, []byte(defaultYAML), 0600)
}

const defaultYAML = `target:
  mode: ssh
  host: localhost
  port: 22
  user: probe
  key_path: ""
  known_hosts: ""
  strict_host_key: false
  connect_timeout_seconds: 3
exec:
  timeout_seconds: 3
  no_sudo: false
server:
  addr: ":6666"
store:
  enabled: false
  path: ""
telemetry:
  enabled: true
debug: false
`
