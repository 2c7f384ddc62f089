package credentials

import "github.com/spacemeshos/go-smartaccount/metrics"

var registeredKeys = metrics.NewGauge(
	"registered_keys",
	"credentials",
	"number of registered public keys",
	[]string{"kind"},
)
