// Package config contains the smartaccount configuration definitions.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/controller"
	"github.com/spacemeshos/go-smartaccount/credentials"
	"github.com/spacemeshos/go-smartaccount/log"
	"github.com/spacemeshos/go-smartaccount/store"
)

const (
	defaultConfigFileName = "./config.toml"
	defaultDataDirName    = ".smartaccount"
	// EnvPrefix is the prefix of environment variables that override the config.
	EnvPrefix = "SMARTACCOUNT"
)

// Config defines the top level configuration.
type Config struct {
	// Preset names the configuration the file is applied on top of.
	Preset      string `mapstructure:"preset"`
	BaseConfig  `mapstructure:"main"`
	Controller  controller.Config  `mapstructure:"controller"`
	Store       store.Config       `mapstructure:"store"`
	Credentials credentials.Config `mapstructure:"credentials"`
	Whitelist   WhitelistConfig    `mapstructure:"whitelist"`
	Logging     log.Config         `mapstructure:"logging"`
}

// BaseConfig defines the options shared by all commands.
type BaseConfig struct {
	DataDir    string `mapstructure:"data-folder"`
	ConfigFile string `mapstructure:"config"`
}

// WhitelistConfig is the static allow-list of implementations and hooks.
type WhitelistConfig struct {
	Implementations []types.Address `mapstructure:"implementations"`
	Hooks           []types.Address `mapstructure:"hooks"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig:  defaultBaseConfig(),
		Controller:  controller.DefaultConfig(),
		Store:       store.DefaultConfig(),
		Credentials: credentials.DefaultConfig(),
		Logging:     log.DefaultConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return BaseConfig{
		DataDir:    filepath.Join(home, defaultDataDirName),
		ConfigFile: defaultConfigFileName,
	}
}

// StorePath returns the state database path. Relative paths are resolved
// against the data folder.
func (cfg *Config) StorePath() string {
	if filepath.IsAbs(cfg.Store.Path) {
		return cfg.Store.Path
	}
	return filepath.Join(cfg.DataDir, cfg.Store.Path)
}

// Validate checks every section.
func (cfg *Config) Validate() error {
	return errors.Join(
		cfg.Controller.Validate(),
		cfg.Store.Validate(),
	)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (cfg *Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("data-folder", cfg.DataDir)
	if err := encoder.AddObject("controller", cfg.Controller); err != nil {
		return err
	}
	if err := encoder.AddObject("store", cfg.Store); err != nil {
		return err
	}
	if err := encoder.AddObject("credentials", cfg.Credentials); err != nil {
		return err
	}
	encoder.AddInt("whitelisted-implementations", len(cfg.Whitelist.Implementations))
	encoder.AddInt("whitelisted-hooks", len(cfg.Whitelist.Hooks))
	return nil
}

// LoadConfig reads the config file into vip and enables environment overrides.
// An empty location reads the default config file if it exists.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	vip.AutomaticEnv()

	optional := fileLocation == ""
	if optional {
		fileLocation = defaultConfigFileName
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", fileLocation, err)
	}
	return nil
}

// Load returns the defaults overridden by the config file and the environment.
func Load(fileLocation string) (Config, error) {
	vip := viper.New()
	if err := LoadConfig(fileLocation, vip); err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := Unmarshal(vip, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Unmarshal decodes the settings of vip into cfg.
func Unmarshal(vip *viper.Viper, cfg *Config) error {
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		withZeroFields(),
		withErrorUnused(),
	}
	if err := vip.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func withZeroFields() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ZeroFields = true
	}
}

func withErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}
