package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
)

// Config holds all API Rate Guardian configuration.
type Config struct {
	APIs          []checkers.Config          `mapstructure:"apis"`
	Notifications map[string]notify.Settings `mapstructure:"notifications"`
	Server        ServerConfig               `mapstructure:"server"`
	Storage       StorageConfig              `mapstructure:"storage"`
	Logging       LoggingConfig              `mapstructure:"logging"`
}

// ServerConfig defines the optional status/metrics HTTP server.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// StorageConfig defines alert history persistence. An empty path
// disables the history.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envVarPattern matches ${VAR} references inside the config file.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the environment value,
// leaving unset references untouched so the resulting error message
// names the missing variable.
func expandEnv(raw []byte) []byte {
	return envVarPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		name := string(match[2 : len(match)-1])
		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		return match
	})
}

// Load reads configuration from the given file (or the default search
// path), applies ${VAR} substitution, environment overrides, and
// defaults.
func Load(cfgFile string) (*Config, error) {
	path, err := resolvePath(cfgFile)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.listen", ":9090")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetEnvPrefix("GUARDIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadConfig(bytes.NewReader(expandEnv(raw))); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// resolvePath finds the config file: an explicit path must exist, and
// the default search covers the working directory and ~/.guardian.
func resolvePath(cfgFile string) (string, error) {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return "", fmt.Errorf("config file %q: %w", cfgFile, err)
		}
		return cfgFile, nil
	}

	candidates := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".guardian", "config.yaml"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no config file found (searched %v); create one with 'guardian config init'", candidates)
}

// Validate reports fatal configuration errors.
func (c *Config) Validate() error {
	if len(c.APIs) == 0 {
		return fmt.Errorf("no provider entries configured under 'apis'")
	}
	seen := make(map[string]bool, len(c.APIs))
	for i := range c.APIs {
		api := c.APIs[i]
		api.ApplyDefaults()
		if seen[api.Name] {
			return fmt.Errorf("duplicate checker name %q", api.Name)
		}
		seen[api.Name] = true
	}
	return nil
}
