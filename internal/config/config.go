package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidProbeURL indicates the reachability probe target is not a valid URL.
var ErrInvalidProbeURL = errors.New("invalid probe URL")

// MACConfig holds settings for hardware address randomization.
type MACConfig struct {
	// Randomize enables hardware address randomization before connecting.
	Randomize bool `yaml:"randomize,omitempty"`
	// Command is the randomization utility binary.
	Command string `yaml:"command,omitempty"`
	// Options is the option string passed to the randomization utility.
	Options string `yaml:"options,omitempty"`
}

// CacheConfig holds settings for the external rotating password cache.
type CacheConfig struct {
	// Command is the password cache binary.
	Command string `yaml:"command,omitempty"`
}

// PollConfig holds settings for the network readiness poll.
type PollConfig struct {
	// Interval is the delay between reachability probe attempts.
	Interval time.Duration `yaml:"interval,omitempty"`
	// ProbeTimeout is the per-attempt connect timeout for the probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout,omitempty"`
}

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	// Enabled enables desktop notifications.
	Enabled bool `yaml:"enabled,omitempty"`
	// OnConnect sends a notification when a connection is established.
	OnConnect bool `yaml:"on_connect,omitempty"`
	// OnFailure sends a notification when a connection attempt fails.
	OnFailure bool `yaml:"on_failure,omitempty"`
}

// Config represents the airswitch configuration. It is constructed once at
// startup and passed by reference; nothing mutates it after load except the
// profile update command, which rewrites OtherProfiles and saves.
type Config struct {
	// WorkProfile is the name of the profile whose key rotates daily.
	WorkProfile string `yaml:"work_profile,omitempty"`
	// OtherProfiles is the comma-separated list of known non-work profiles.
	OtherProfiles string `yaml:"other_profiles,omitempty"`
	// Adapter is the wireless interface name.
	Adapter string `yaml:"adapter,omitempty"`
	// ProbeURL is the reachability probe target.
	ProbeURL string `yaml:"probe_url,omitempty"`
	// ProfileDir is the network profile store directory.
	ProfileDir string `yaml:"profile_dir,omitempty"`
	// NetctlCommand is the network manager binary.
	NetctlCommand string `yaml:"netctl_command,omitempty"`
	// SudoCommand is the privilege escalation binary.
	SudoCommand string `yaml:"sudo_command,omitempty"`
	// MAC holds hardware address randomization settings.
	MAC MACConfig `yaml:"mac,omitempty"`
	// Cache holds password cache settings.
	Cache CacheConfig `yaml:"cache,omitempty"`
	// Poll holds readiness poll settings.
	Poll PollConfig `yaml:"poll,omitempty"`
	// Notifications holds notification settings.
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// filePath is the path where this config was loaded from.
	filePath string `yaml:"-"`
}

// Default returns a new Config with default values.
func Default() *Config {
	paths := GetPaths()
	return &Config{
		Adapter:       "wlan0",
		ProbeURL:      "http://detectportal.firefox.com/success.txt",
		ProfileDir:    "/etc/netctl",
		NetctlCommand: "netctl",
		SudoCommand:   "sudo",
		MAC: MACConfig{
			Randomize: false,
			Command:   "macchanger",
			Options:   "-A",
		},
		Cache: CacheConfig{
			Command: "wifipass",
		},
		Poll: PollConfig{
			Interval:     500 * time.Millisecond,
			ProbeTimeout: 2 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled:   false,
			OnConnect: true,
			OnFailure: true,
		},
		filePath: paths.ConfigFile,
	}
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	paths := GetPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	// #nosec G304 - path is the config file path (controlled, from user config directory)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for missing values
	if cfg.Adapter == "" {
		cfg.Adapter = "wlan0"
	}
	if cfg.ProbeURL == "" {
		cfg.ProbeURL = "http://detectportal.firefox.com/success.txt"
	}
	if cfg.ProfileDir == "" {
		cfg.ProfileDir = "/etc/netctl"
	}
	if cfg.NetctlCommand == "" {
		cfg.NetctlCommand = "netctl"
	}
	if cfg.SudoCommand == "" {
		cfg.SudoCommand = "sudo"
	}
	if cfg.MAC.Command == "" {
		cfg.MAC.Command = "macchanger"
	}
	if cfg.Cache.Command == "" {
		cfg.Cache.Command = "wifipass"
	}
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = 500 * time.Millisecond
	}
	if cfg.Poll.ProbeTimeout == 0 {
		cfg.Poll.ProbeTimeout = 2 * time.Second
	}

	return cfg, nil
}

// Save writes the configuration to its file path.
func (c *Config) Save() error {
	if c.filePath == "" {
		return errors.New("config file path not set")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// OtherProfileNames returns the configured non-work profiles, split on commas
// and trimmed of surrounding whitespace. Empty entries are dropped.
func (c *Config) OtherProfileNames() []string {
	if c.OtherProfiles == "" {
		return nil
	}
	parts := strings.Split(c.OtherProfiles, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SetOtherProfiles replaces the non-work profile list. The list is persisted
// as a comma-joined string so the saved config stays a flat key/value file.
func (c *Config) SetOtherProfiles(names []string) {
	c.OtherProfiles = strings.Join(names, ",")
}

// ValidateProbeURL validates that the reachability probe target is a usable
// HTTP/HTTPS URL.
func (c *Config) ValidateProbeURL() error {
	parsed, err := url.Parse(c.ProbeURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProbeURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: probe URL must use http or https scheme, got %q", ErrInvalidProbeURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: probe URL must have a host", ErrInvalidProbeURL)
	}
	return nil
}

// FilePath returns the path where this config was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}

// SetFilePath overrides the path the config saves to. Used by tests.
func (c *Config) SetFilePath(path string) {
	c.filePath = path
}
