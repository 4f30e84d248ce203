package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Validation ValidationConfig `mapstructure:"validation"`
	Report     ReportConfig     `mapstructure:"report"`
	AutoClose  AutoCloseConfig  `mapstructure:"autoclose"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ValidationConfig struct {
	MaxFutureDays int `mapstructure:"max_future_days"`
	// RoleActivities restricts which activity codes a staff role may log.
	// Roles absent from the map are unrestricted.
	RoleActivities map[string][]string `mapstructure:"role_activities"`
	LockWait       time.Duration       `mapstructure:"lock_wait"`
}

type ReportConfig struct {
	Prefix   string        `mapstructure:"prefix"`
	LockWait time.Duration `mapstructure:"lock_wait"`
}

type AutoCloseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from an optional YAML file, layering
// GRANTHOURS_* environment variables over it. An empty configFile means
// file-less operation on defaults and environment alone.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GRANTHOURS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", defaultDBPath())
	v.SetDefault("validation.max_future_days", 7)
	v.SetDefault("validation.lock_wait", 20*time.Second)
	v.SetDefault("report.prefix", "Compliance")
	v.SetDefault("report.lock_wait", 20*time.Second)
	v.SetDefault("autoclose.enabled", false)
	// Friday evening, after the workday the week ends on.
	v.SetDefault("autoclose.schedule", "0 18 * * FRI")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "granthours.db"
	}
	return filepath.Join(home, ".granthours", "granthours.db")
}
