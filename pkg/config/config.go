// Package config loads the INI configuration of spec §6 into one immutable
// Config value constructed at startup (design note §9: "represented as one
// immutable config value constructed at startup; runtime-mutable state lives
// only in the engine").
//
// Grounded on the teacher's pkg/config/file_loader.go FileConfigLoader.Load
// shape (read file, unmarshal, validate, return typed config or a wrapped
// error), adapted from JSON to INI since gopkg.in/ini.v1 is the real
// ecosystem library for this format — there is no INI parser anywhere in the
// example pack to ground this on otherwise.
package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

type DiscoverySection struct {
	MaxDepth               int
	DiscoveryTimeout       time.Duration
	ConcurrentDevices      int
	EnableProgressTracking bool
	ConnectionTimeout      time.Duration
}

type CredentialsSection struct {
	PromptForEnablePassword bool
}

type ExclusionsSection struct {
	ExcludePlatforms    []string
	ExcludeCapabilities []string
	ExcludeHostnames    []string
	ExcludeCIDRs        []string
}

type DatabaseSection struct {
	Enabled  bool
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

type VLANCollectionSection struct {
	Enabled bool
	Timeout time.Duration
}

type OutputSection struct {
	SiteBoundaryPattern string
	OutputDir           string
}

type VisioSection struct {
	ExcludeDevices []string
}

// Config is the fully parsed, validated configuration (spec §6).
type Config struct {
	Discovery      DiscoverySection
	Credentials    CredentialsSection
	Exclusions     ExclusionsSection
	Database       DatabaseSection
	VLANCollection VLANCollectionSection
	Output         OutputSection
	Visio          VisioSection
}

// Default returns the spec's documented defaults, used when a config file
// omits a key outright.
func Default() Config {
	return Config{
		Discovery: DiscoverySection{
			MaxDepth:               9,
			DiscoveryTimeout:       2 * time.Hour,
			ConcurrentDevices:      10,
			EnableProgressTracking: true,
			ConnectionTimeout:      30 * time.Second,
		},
		Output: OutputSection{
			SiteBoundaryPattern: "*-CORE-*",
			OutputDir:           ".",
		},
		VLANCollection: VLANCollectionSection{
			Enabled: true,
			Timeout: 30 * time.Second,
		},
	}
}

// Load parses path into a Config, applying Default() for any key the file
// omits, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if sec := f.Section("discovery"); sec != nil {
		cfg.Discovery.MaxDepth = sec.Key("max_depth").MustInt(cfg.Discovery.MaxDepth)
		cfg.Discovery.DiscoveryTimeout = seconds(sec.Key("discovery_timeout").MustInt(int(cfg.Discovery.DiscoveryTimeout.Seconds())))
		cfg.Discovery.ConcurrentDevices = sec.Key("concurrent_devices").MustInt(cfg.Discovery.ConcurrentDevices)
		cfg.Discovery.EnableProgressTracking = sec.Key("enable_progress_tracking").MustBool(cfg.Discovery.EnableProgressTracking)
		cfg.Discovery.ConnectionTimeout = seconds(sec.Key("connection_timeout").MustInt(int(cfg.Discovery.ConnectionTimeout.Seconds())))
	}

	if sec := f.Section("credentials"); sec != nil {
		cfg.Credentials.PromptForEnablePassword = sec.Key("prompt_for_enable_password").MustBool(false)
	}

	if sec := f.Section("exclusions"); sec != nil {
		cfg.Exclusions.ExcludePlatforms = splitGlobList(sec.Key("exclude_platforms").String())
		cfg.Exclusions.ExcludeCapabilities = splitGlobList(sec.Key("exclude_capabilities").String())
		cfg.Exclusions.ExcludeHostnames = splitGlobList(sec.Key("exclude_hostnames").String())
		cfg.Exclusions.ExcludeCIDRs = splitGlobList(sec.Key("exclude_cidrs").String())
	}

	if sec := f.Section("database"); sec != nil {
		cfg.Database.Enabled = sec.Key("enabled").MustBool(false)
		cfg.Database.Host = sec.Key("host").MustString("localhost")
		cfg.Database.Port = sec.Key("port").MustInt(5432)
		cfg.Database.Name = sec.Key("name").String()
		cfg.Database.User = sec.Key("user").String()
		cfg.Database.Password = sec.Key("password").String()
		cfg.Database.SSLMode = sec.Key("sslmode").MustString("disable")
	}

	if sec := f.Section("vlan_collection"); sec != nil {
		cfg.VLANCollection.Enabled = sec.Key("enabled").MustBool(cfg.VLANCollection.Enabled)
		cfg.VLANCollection.Timeout = seconds(sec.Key("timeout").MustInt(int(cfg.VLANCollection.Timeout.Seconds())))
	}

	if sec := f.Section("output"); sec != nil {
		cfg.Output.SiteBoundaryPattern = sec.Key("site_boundary_pattern").MustString(cfg.Output.SiteBoundaryPattern)
		cfg.Output.OutputDir = sec.Key("output_dir").MustString(cfg.Output.OutputDir)
	}

	if sec := f.Section("visio"); sec != nil {
		cfg.Visio.ExcludeDevices = splitGlobList(sec.Key("exclude_devices").String())
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Discovery.MaxDepth < 0 {
		return fmt.Errorf("config: [discovery] max_depth must be >= 0")
	}

	if c.Discovery.ConcurrentDevices < 1 {
		return fmt.Errorf("config: [discovery] concurrent_devices must be >= 1")
	}

	if c.Database.Enabled && (c.Database.Name == "" || c.Database.User == "") {
		return fmt.Errorf("config: [database] name and user are required when enabled")
	}

	return nil
}

func splitGlobList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
