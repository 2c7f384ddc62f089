package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/spacemeshos/go-smartaccount/config"
	"github.com/spacemeshos/go-smartaccount/config/presets"
)

// AddFlags adds the config flags to flagSet, bound to cfg.
func AddFlags(flagSet *pflag.FlagSet, cfg *config.Config) {
	flagSet.StringP("preset", "p", "",
		fmt.Sprintf("preset overwrites default values of the config. options %+s", presets.Options()))

	/** ======================== BaseConfig Flags ========================== **/
	flagSet.StringP("config", "c", "", "load configuration from file")
	flagSet.StringVarP(&cfg.DataDir, "data-folder", "d", cfg.DataDir, "data directory")

	/** ======================== Controller Flags ========================== **/
	flagSet.Uint64Var(&cfg.Controller.ChainID, "chain-id", cfg.Controller.ChainID,
		"chain id mixed into batch digests")
	flagSet.DurationVar(&cfg.Controller.LockDuring, "lock-during", cfg.Controller.LockDuring,
		"default timelock of new accounts")

	/** ======================== Store Flags ========================== **/
	flagSet.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path,
		"state database, relative to the data folder")

	/** ======================== Logging Flags ========================== **/
	flagSet.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "logging level")
	flagSet.StringVar(&cfg.Logging.Encoder, "log-encoder", cfg.Logging.Encoder,
		"log encoder, console or json")
}
