package presets

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spacemeshos/go-smartaccount/config"
)

func init() {
	register("standalone", standalone())
}

// standalone is a local development setup with a short timelock.
func standalone() config.Config {
	conf := config.DefaultConfig()
	conf.DataDir = filepath.Join(os.TempDir(), "smartaccount")
	conf.Controller.ChainID = 1337
	conf.Controller.LockDuring = time.Minute
	conf.Logging.Level = "debug"
	return conf
}
