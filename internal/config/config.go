package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arjun-29/veil/internal/secret"
	"github.com/arjun-29/veil/internal/template"
	"github.com/arjun-29/veil/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigVersion = 1
	defaultConfigRelPath = "veil/config.yaml"
	defaultStoreRelPath  = "veil/store.yaml"
	defaultAuditRelPath  = "veil/audit.log"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the top-level configuration schema.
type Config struct {
	Version int `yaml:"version"`

	Security  Security  `yaml:"security"`
	Redaction Redaction `yaml:"redaction"`
	Policy    Policy    `yaml:"policy"`
	Store     Store     `yaml:"store"`
	Audit     Audit     `yaml:"audit"`
}

// Security controls reveal strictness and audit obligations.
type Security struct {
	Level              types.SecurityLevel `yaml:"level"`
	AuditConfigChanges bool                `yaml:"audit_config_changes"`
}

// Redaction configures the global default template. An empty template
// means the built-in redaction marker.
type Redaction struct {
	DefaultTemplate string `yaml:"default_template,omitempty"`
}

// Policy configures wrap-time policy rules.
type Policy struct {
	Rules []PolicyRule `yaml:"rules,omitempty"`
}

// PolicyRule is a named boolean expression over secret metadata
// (secret_type, secret_length).
type PolicyRule struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// Store configures the named secret store location.
type Store struct {
	Path string `yaml:"path,omitempty"`
}

// Audit configures the audit trail location.
type Audit struct {
	Path string `yaml:"path,omitempty"`
}

// DefaultConfig returns the canonical default configuration.
func DefaultConfig() Config {
	return Config{
		Version: DefaultConfigVersion,
		Security: Security{
			Level:              types.SecurityStandard,
			AuditConfigChanges: true,
		},
		Redaction: Redaction{
			DefaultTemplate: "",
		},
		Policy: Policy{
			Rules: []PolicyRule{
				{
					Name: "non_empty_string",
					Expr: `secret_type != "string" || secret_length > 0`,
				},
			},
		},
	}
}

// DefaultPath returns the default config path.
func DefaultPath() (string, error) {
	return userPath(defaultConfigRelPath)
}

// StorePath resolves the store location, falling back to the default
// next to the config file.
func (c Config) StorePath() (string, error) {
	if p := strings.TrimSpace(c.Store.Path); p != "" {
		return p, nil
	}
	return userPath(defaultStoreRelPath)
}

// AuditPath resolves the audit trail location.
func (c Config) AuditPath() (string, error) {
	if p := strings.TrimSpace(c.Audit.Path); p != "" {
		return p, nil
	}
	return userPath(defaultAuditRelPath)
}

func userPath(rel string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, rel), nil
	}
	return filepath.Join(home, ".config", rel), nil
}

// Parse parses YAML config content, applying defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads config from disk, applying defaults when missing.
// The boolean return indicates whether a config file was found.
func Load(pathOverride string) (Config, bool, error) {
	path := strings.TrimSpace(pathOverride)
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, false, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			if err := cfg.Validate(); err != nil {
				return Config{}, false, err
			}
			return cfg, false, nil
		}
		return Config{}, false, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Validate enforces the supported configuration schema. A broken global
// template or a standard/paranoid level without audit logging is rejected
// here, at configuration time, instead of degrading silently later.
func (c Config) Validate() error {
	var errs []string
	if c.Version != DefaultConfigVersion {
		errs = append(errs, fmt.Sprintf("version must be %d", DefaultConfigVersion))
	}
	if _, err := types.ParseSecurityLevel(string(c.Security.Level)); err != nil {
		errs = append(errs, "security.level must be minimal|standard|paranoid")
	} else if c.Security.Level != types.SecurityMinimal && !c.Security.AuditConfigChanges {
		errs = append(errs, fmt.Sprintf("security.level %q requires security.audit_config_changes", c.Security.Level))
	}
	if tpl := c.Redaction.DefaultTemplate; tpl != "" {
		if err := template.Validate(tpl); err != nil {
			errs = append(errs, fmt.Sprintf("redaction.default_template: %v", err))
		}
	}
	for i, rule := range c.Policy.Rules {
		if strings.TrimSpace(rule.Name) == "" {
			errs = append(errs, fmt.Sprintf("policy.rules[%d].name is required", i))
		}
		if strings.TrimSpace(rule.Expr) == "" {
			errs = append(errs, fmt.Sprintf("policy.rules[%d].expr is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Apply installs the validated configuration into the secret core.
func (c Config) Apply() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return secret.SetDefaultTemplate(c.Redaction.DefaultTemplate)
}
