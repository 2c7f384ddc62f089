package auth

import "github.com/spacemeshos/go-smartaccount/metrics"

const subsystem = "auth"

var (
	envelopeVerifications = metrics.NewCounter(
		"envelopes",
		subsystem,
		"number of verified proof envelopes",
		[]string{"envelope", "result"},
	)
	credentialVerifications = metrics.NewCounter(
		"credentials",
		subsystem,
		"number of verified signed keys",
		[]string{"kind", "result"},
	)
)
