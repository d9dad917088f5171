package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings shared by skincycle and skincycled
type Config struct {
	DBPath         string
	Port           int
	LogLevel       string
	LogDevelopment bool
}

// Dir returns the per-user data directory ($HOME/.skincycle)
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skincycle"
	}
	return filepath.Join(home, ".skincycle")
}

// New prepares a viper instance with defaults, the config file and SKINCYCLE_ env
// overrides. cfgFile may be empty to use $HOME/.skincycle/config.yaml.
func New(cfgFile string) *viper.Viper {
	v := viper.New()

	v.SetDefault("db", filepath.Join(Dir(), "skincycle.db"))
	v.SetDefault("port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("skincycle")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if any, and returns the resolved settings.
// A missing config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		DBPath:         v.GetString("db"),
		Port:           v.GetInt("port"),
		LogLevel:       v.GetString("log.level"),
		LogDevelopment: v.GetBool("log.development"),
	}
	if cfg.DBPath == "" {
		return Config{}, errors.New("db path must not be empty")
	}

	return cfg, nil
}

// EnsureDir creates the parent directory of the database file
func (c Config) EnsureDir() error {
	dir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
