package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Console  ConsoleConfig
	World    WorldConfig
	Network  NetworkConfig
	Player   PlayerConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ConsoleConfig holds presentation settings for the command console.
type ConsoleConfig struct {
	Prompt string
}

// WorldConfig holds world interaction settings.
type WorldConfig struct {
	ReachDistance float64 `mapstructure:"reach_distance"`
	Content       string  // optional TOML content pack; empty uses the built-in pack
}

// NetworkConfig holds chat hub settings.
type NetworkConfig struct {
	ServerURL  string `mapstructure:"server_url"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// PlayerConfig holds the local player's identity.
type PlayerConfig struct {
	Name string
}

// Path returns the config file location. VOXELCMD_CONFIG wins over the default.
func Path() string {
	if p := os.Getenv("VOXELCMD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "voxelcmd", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix VOXELCMD_.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from path if it exists, then applies env overrides.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "voxelcmd", "world.db"))
	v.SetDefault("console.prompt", "> ")
	v.SetDefault("world.reach_distance", 8.0)
	v.SetDefault("world.content", "")
	v.SetDefault("network.server_url", "")
	v.SetDefault("network.listen_addr", ":8765")
	v.SetDefault("player.name", defaultPlayerName())

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("VOXELCMD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.World.ReachDistance <= 0 {
		c.World.ReachDistance = 8
	}
	return c, nil
}

// Save writes the provided config to Path(), creating the config directory if needed.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg to path as TOML.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("console.prompt", cfg.Console.Prompt)
	v.Set("world.reach_distance", cfg.World.ReachDistance)
	v.Set("world.content", cfg.World.Content)
	v.Set("network.server_url", cfg.Network.ServerURL)
	v.Set("network.listen_addr", cfg.Network.ListenAddr)
	v.Set("player.name", cfg.Player.Name)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultPlayerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
