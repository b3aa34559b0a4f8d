package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/igm/organizer/internal/logger"
)

// Config holds all configuration for the organizer
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Export  ExportConfig  `mapstructure:"export"`
	Menu    MenuConfig    `mapstructure:"menu"`
	Logging logger.Config `mapstructure:"logging"`
}

// StorageConfig holds backing file settings
type StorageConfig struct {
	WorkDir  string `mapstructure:"work_dir"`
	DataFile string `mapstructure:"data_file"` // relative paths resolve against WorkDir
}

// ExportConfig holds export settings
type ExportConfig struct {
	Format string `mapstructure:"format"` // text, yaml, xlsx
}

// MenuConfig holds interactive menu settings
type MenuConfig struct {
	Color bool `mapstructure:"color"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Storage: StorageConfig{
			WorkDir:  filepath.Join(home, ".organizer"),
			DataFile: "organizer_data.txt",
		},
		Export: ExportConfig{
			Format: "text",
		},
		Menu: MenuConfig{
			Color: true,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(cfg.Storage.WorkDir)
		v.AddConfigPath("/etc/organizer")
	}

	v.SetDefault("storage.work_dir", cfg.Storage.WorkDir)
	v.SetDefault("storage.data_file", cfg.Storage.DataFile)
	v.SetDefault("export.format", cfg.Export.Format)
	v.SetDefault("menu.color", cfg.Menu.Color)
	v.SetDefault("logging.level", string(cfg.Logging.Level))
	v.SetDefault("logging.format", string(cfg.Logging.Format))

	// ORGANIZER_STORAGE_DATA_FILE etc.
	v.SetEnvPrefix("ORGANIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// DataPath returns the backing file path, resolving DataFile against WorkDir
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.Storage.DataFile) {
		return c.Storage.DataFile
	}
	return filepath.Join(c.Storage.WorkDir, c.Storage.DataFile)
}

// EnsureWorkDir creates the working directory if it doesn't exist
func (c *Config) EnsureWorkDir() error {
	return os.MkdirAll(c.Storage.WorkDir, 0755)
}

// ConfigPath returns the path to config file
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Storage.WorkDir, "config.yaml")
}

// Save writes the current config to file
func (c *Config) Save() error {
	if err := c.EnsureWorkDir(); err != nil {
		return err
	}

	// Explicit keys keep snake_case in the written file
	configMap := map[string]interface{}{
		"storage": map[string]interface{}{
			"work_dir":  c.Storage.WorkDir,
			"data_file": c.Storage.DataFile,
		},
		"export": map[string]interface{}{
			"format": c.Export.Format,
		},
		"menu": map[string]interface{}{
			"color": c.Menu.Color,
		},
		"logging": map[string]interface{}{
			"level":  string(c.Logging.Level),
			"format": string(c.Logging.Format),
		},
	}

	v := viper.New()
	v.SetConfigFile(c.ConfigPath())
	for key, value := range configMap {
		v.Set(key, value)
	}

	return v.WriteConfig()
}
