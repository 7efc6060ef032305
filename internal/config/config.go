package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/csheth/attachpanel/internal/panel"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath = "ATTACHPANEL_CONFIG"
	EnvUsageDB    = "ATTACHPANEL_USAGE_DB"
	EnvMediaDir   = "ATTACHPANEL_MEDIA_DIR"
)

type Config struct {
	Panel        PanelConfig               `yaml:"panel"`
	Pickers      PickerConfig              `yaml:"pickers"`
	Launchers    map[string]LauncherConfig `yaml:"launchers"`
	Capabilities CapabilityConfig          `yaml:"capabilities"`
	Usage        UsageConfig               `yaml:"usage"`
	Outbox       OutboxConfig              `yaml:"outbox"`
}

type PanelConfig struct {
	Categories  []string `yaml:"categories"`
	HeightRatio float64  `yaml:"height_ratio"`
	AnimationMS int      `yaml:"animation_ms"`
}

type PickerConfig struct {
	MediaDir    string `yaml:"media_dir"`
	DocumentDir string `yaml:"document_dir"`
	CaptureDir  string `yaml:"capture_dir"`
}

// LauncherConfig describes the command started for one launch target.
// Interactive commands take over the terminal while they run.
type LauncherConfig struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Interactive bool     `yaml:"interactive"`
}

type CapabilityConfig struct {
	// Features overrides device probing for the named features.
	Features map[string]bool `yaml:"features"`
	Denied   []string        `yaml:"denied_privileges"`
	Probe    bool            `yaml:"probe"`
}

type UsageConfig struct {
	Path string `yaml:"path"`
}

type OutboxConfig struct {
	Path string `yaml:"path"`
}

const DefaultConfigYAML = `# attachpanel configuration

panel:
  categories: [image, camera, voice, document, video, audio, contact, calendar, files]
  height_ratio: 0.45
  animation_ms: 200

pickers:
  media_dir: ~/Pictures
  document_dir: ~/Documents
  capture_dir: ~/.local/share/attachpanel/captures

launchers:
  myfiles:
    command: fzf
    args: ["--multi"]
    interactive: true

capabilities:
  probe: true

usage:
  path: ~/.local/share/attachpanel/usage.db

outbox:
  path: ~/.local/share/attachpanel/outbox.json
`

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(DefaultConfigYAML), &cfg); err != nil {
		panic(fmt.Sprintf("config: default configuration: %v", err))
	}
	return cfg
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "attachpanel", "config.yaml")
}

// Load reads the configuration at path over the defaults. An empty path falls
// back to $ATTACHPANEL_CONFIG and then DefaultPath; a missing file at a
// fallback location is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path = env
			explicit = true
		} else {
			path = DefaultPath()
		}
	}
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(expandHome(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, err
		}
	}
	cfg.applyEnv()
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if env := os.Getenv(EnvUsageDB); env != "" {
		c.Usage.Path = env
	}
	if env := os.Getenv(EnvMediaDir); env != "" {
		c.Pickers.MediaDir = env
	}
}

func (c *Config) expandPaths() {
	c.Pickers.MediaDir = expandHome(c.Pickers.MediaDir)
	c.Pickers.DocumentDir = expandHome(c.Pickers.DocumentDir)
	c.Pickers.CaptureDir = expandHome(c.Pickers.CaptureDir)
	c.Usage.Path = expandHome(c.Usage.Path)
	c.Outbox.Path = expandHome(c.Outbox.Path)
}

// Validate checks category names, ratios and launcher entries.
func (c Config) Validate() error {
	if _, err := c.CategoryList(); err != nil {
		return err
	}
	if c.Panel.HeightRatio < 0 || c.Panel.HeightRatio > 1 {
		return fmt.Errorf("panel.height_ratio must be within (0, 1], got %v", c.Panel.HeightRatio)
	}
	if c.Panel.AnimationMS < 0 {
		return fmt.Errorf("panel.animation_ms must not be negative")
	}
	for target, l := range c.Launchers {
		if strings.TrimSpace(l.Command) == "" {
			return fmt.Errorf("launchers.%s: command is required", target)
		}
	}
	return nil
}

// CategoryList resolves the configured category names.
func (c Config) CategoryList() ([]panel.Category, error) {
	out := make([]panel.Category, 0, len(c.Panel.Categories))
	seen := make(map[panel.Category]bool)
	for _, name := range c.Panel.Categories {
		cat, err := panel.ParseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("panel.categories: %w", err)
		}
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out, nil
}

// AnimationDuration returns the configured show/hide duration.
func (c Config) AnimationDuration() time.Duration {
	return time.Duration(c.Panel.AnimationMS) * time.Millisecond
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
