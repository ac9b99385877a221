// Package config loads the groundwork.yaml configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// DefaultPath is where the loader looks when no --config flag is given.
const DefaultPath = "groundwork.yaml"

// basePackages are installed during the root phase on every server.
// Extra packages from the config file are appended.
var basePackages = []string{
	"ufw",
	"fail2ban",
	"unattended-upgrades",
	"sudo",
	"curl",
	"git",
	"ca-certificates",
}

// GitConfig holds the identity written to the user's ~/.gitconfig.
type GitConfig struct {
	Name          string `yaml:"name"`
	Email         string `yaml:"email"`
	DefaultBranch string `yaml:"default_branch"`
}

// Config is the full groundwork configuration.
type Config struct {
	// Username is the unprivileged account the root phase creates and the
	// SSH hardening protects.
	Username string `yaml:"username"`

	// SSHPort is the port sshd listens on; it is always allowed through
	// the firewall.
	SSHPort int `yaml:"ssh_port"`

	// AllowPorts are additional TCP ports opened in the firewall.
	AllowPorts []int `yaml:"allow_ports"`

	// ExtraPackages are installed in addition to the base set.
	ExtraPackages []string `yaml:"extra_packages"`

	// Tools maps version-manager tool names to versions (e.g. node: "22").
	Tools map[string]string `yaml:"tools"`

	// Git configures the managed ~/.gitconfig keys.
	Git GitConfig `yaml:"git"`

	// DefaultDir is the working directory created during the user phase.
	DefaultDir string `yaml:"default_dir"`

	// Env and Aliases populate the managed block in the shell profile.
	Env     map[string]string `yaml:"env"`
	Aliases map[string]string `yaml:"aliases"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Username:   "dev",
		SSHPort:    22,
		AllowPorts: []int{80, 443},
		Tools: map[string]string{
			"node":   "lts",
			"python": "3.12",
			"go":     "latest",
		},
		Git: GitConfig{
			DefaultBranch: "main",
		},
		DefaultDir: "~/work",
		Env: map[string]string{
			"EDITOR": "nvim",
		},
		Aliases: map[string]string{
			"ll": "ls -alF",
		},
	}
}

// Load reads the configuration from path, falling back to defaults when
// the file does not exist. Fields absent from the file keep their default
// values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values that would be unsafe on a
// command line or in a system configuration file.
func (c *Config) Validate() error {
	if err := validation.ValidateUsername(c.Username); err != nil {
		return err
	}
	if err := validation.ValidatePort(c.SSHPort); err != nil {
		return fmt.Errorf("ssh_port: %w", err)
	}
	for _, p := range c.AllowPorts {
		if err := validation.ValidatePort(p); err != nil {
			return fmt.Errorf("allow_ports: %w", err)
		}
	}
	for _, pkg := range c.ExtraPackages {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return fmt.Errorf("extra_packages: %w", err)
		}
	}
	for tool := range c.Tools {
		if err := validation.ValidateToolName(tool); err != nil {
			return fmt.Errorf("tools: %w", err)
		}
	}
	return nil
}

// Packages returns the full ordered package list for the root phase:
// the base set followed by extras, with duplicates removed.
func (c *Config) Packages() []string {
	seen := make(map[string]bool, len(basePackages)+len(c.ExtraPackages))
	out := make([]string, 0, len(basePackages)+len(c.ExtraPackages))
	for _, pkg := range basePackages {
		if !seen[pkg] {
			seen[pkg] = true
			out = append(out, pkg)
		}
	}
	for _, pkg := range c.ExtraPackages {
		if !seen[pkg] {
			seen[pkg] = true
			out = append(out, pkg)
		}
	}
	return out
}

// Home returns the home directory of the configured user.
func (c *Config) Home() string {
	return "/home/" + c.Username
}
