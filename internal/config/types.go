package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. VOLDCTL_DAEMON_VDC_PATH.
const EnvPrefix = "VOLDCTL"

// Config represents the complete voldctl configuration.
//
// Sources, highest precedence first: environment variables (VOLDCTL_*),
// the configuration file, built-in defaults. CLI flags are applied on top
// by the caller.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Daemon     DaemonConfig     `mapstructure:"daemon" yaml:"daemon"`
	MountPoint MountPointConfig `mapstructure:"mount_point" yaml:"mount_point"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (normalized to lowercase).
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	// JSON selects JSON output instead of the console format.
	JSON bool `mapstructure:"json" yaml:"json"`
}

// DaemonConfig describes how the volume daemon is reached.
type DaemonConfig struct {
	// VdcPath is the daemon's command-line helper.
	VdcPath string `mapstructure:"vdc_path" yaml:"vdc_path" validate:"required"`
	// Timeout bounds every command that is waited for.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// MountPointConfig controls mount point preparation before a mount.
type MountPointConfig struct {
	// Prepare creates missing mount points before mounting.
	Prepare bool `mapstructure:"prepare" yaml:"prepare"`
	// OwnerUID and OwnerGID own newly created mount points (the daemon's user).
	OwnerUID int `mapstructure:"owner_uid" yaml:"owner_uid" validate:"gte=0"`
	OwnerGID int `mapstructure:"owner_gid" yaml:"owner_gid" validate:"gte=0"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format
	// after every command.
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`
}

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultVdcPath  = "/system/bin/vdc"
	DefaultTimeout  = 30 * time.Second
	DefaultOwnerUID = 1000
	DefaultOwnerGID = 1000
)

var validate = validator.New()

// Load loads the configuration from path, the environment and defaults.
//
// If path is empty, $XDG_CONFIG_HOME/voldctl/config.yaml is used when it
// exists. An explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Daemon: DaemonConfig{
			VdcPath: DefaultVdcPath,
			Timeout: DefaultTimeout,
		},
		MountPoint: MountPointConfig{
			Prepare:  true,
			OwnerUID: DefaultOwnerUID,
			OwnerGID: DefaultOwnerGID,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.json", d.Logging.JSON)
	v.SetDefault("daemon.vdc_path", d.Daemon.VdcPath)
	v.SetDefault("daemon.timeout", d.Daemon.Timeout)
	v.SetDefault("mount_point.prepare", d.MountPoint.Prepare)
	v.SetDefault("mount_point.owner_uid", d.MountPoint.OwnerUID)
	v.SetDefault("mount_point.owner_gid", d.MountPoint.OwnerGID)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

// Normalize sanitizes user input to consistent formats.
func (c *Config) Normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Daemon.VdcPath = strings.TrimSpace(c.Daemon.VdcPath)
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return err
	}

	// A bare name is resolved through $PATH; anything else must be absolute.
	p := c.Daemon.VdcPath
	if strings.ContainsRune(p, filepath.Separator) && !filepath.IsAbs(p) {
		return fmt.Errorf("daemon.vdc_path must be absolute or a bare command name, got %q", p)
	}

	return nil
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/voldctl, ~/.config/voldctl, or "."
// when no home directory can be determined.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "voldctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "voldctl")
}
