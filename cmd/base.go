// Package cmd holds the flags and config loading shared by the executables.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/go-smartaccount/config"
	"github.com/spacemeshos/go-smartaccount/config/presets"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Branch is the git branch used to build the App. Designed to be overwritten by make.
	Branch string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// LoadConfig loads the preset, if any, and overrides it with the config file.
// A preset named in the file is used when none is given.
func LoadConfig(cfg *config.Config, preset, path string) error {
	v := viper.New()
	if err := config.LoadConfig(path, v); err != nil {
		return err
	}
	if len(preset) == 0 && v.IsSet("preset") {
		preset = v.GetString("preset")
	}
	if len(preset) > 0 {
		p, err := presets.Get(preset)
		if err != nil {
			return err
		}
		*cfg = p
		cfg.Preset = preset
	}
	return config.Unmarshal(v, cfg)
}

// EnsureCLIFlags applies the flags changed on the command line to cfg.
func EnsureCLIFlags(cmd *cobra.Command, cfg *config.Config) error {
	var ferr error
	flagSet := &pflag.FlagSet{}
	AddFlags(flagSet, cfg)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if ferr != nil {
			return
		}
		ff := flagSet.Lookup(f.Name)
		if ff == nil {
			return
		}
		if err := ff.Value.Set(f.Value.String()); err != nil {
			ferr = fmt.Errorf("flag %s: %w", f.Name, err)
		}
	})
	return ferr
}

// Load builds the effective config of cmd: defaults, preset, file, environment
// and flags in increasing precedence.
func Load(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	preset, err := flags.GetString("preset")
	if err != nil {
		return config.Config{}, err
	}
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.DefaultConfig()
	if err := LoadConfig(&cfg, preset, path); err != nil {
		return config.Config{}, err
	}
	if err := EnsureCLIFlags(cmd, &cfg); err != nil {
		return config.Config{}, fmt.Errorf("mapping cli flags to config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
