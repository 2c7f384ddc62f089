package controller

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/policy"
)

// Config for the controller.
type Config struct {
	ChainID uint64 `mapstructure:"chain-id"`
	// LockDuring is the timelock delay of new accounts.
	LockDuring time.Duration `mapstructure:"lock-during"`
	// SessionWeightCeiling caps the AssetsOp weight of any session key.
	SessionWeightCeiling uint32            `mapstructure:"session-weight-ceiling"`
	Thresholds           policy.Thresholds `mapstructure:"thresholds"`
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		ChainID:              1,
		LockDuring:           48 * time.Hour,
		SessionWeightCeiling: policy.MaxWeight,
		Thresholds:           policy.DefaultThresholds(),
	}
}

// Validate checks thresholds and bounds.
func (c Config) Validate() error {
	if c.LockDuring < 0 || c.LockDuring/time.Second > math.MaxUint32 {
		return fmt.Errorf("lock-during %s out of range", c.LockDuring)
	}
	if c.SessionWeightCeiling > policy.MaxWeight {
		return fmt.Errorf("session-weight-ceiling %d exceeds %d", c.SessionWeightCeiling, policy.MaxWeight)
	}
	return c.Thresholds.Validate()
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (c Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("chain-id", c.ChainID)
	encoder.AddDuration("lock-during", c.LockDuring)
	encoder.AddUint32("session-weight-ceiling", c.SessionWeightCeiling)
	return encoder.AddObject("thresholds", c.Thresholds)
}
