package presets

import (
	"time"

	"github.com/spacemeshos/go-smartaccount/config"
)

func init() {
	register("testnet", testnet())
}

func testnet() config.Config {
	conf := config.DefaultConfig()
	conf.Controller.ChainID = 11155111
	conf.Controller.LockDuring = time.Hour
	conf.Store.Path = "testnet-state"
	return conf
}
