// Package log builds the zap loggers used by smartaccount components and
// provides typed fields for ledger values.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
)

const (
	// ConsoleEncoder writes human readable lines.
	ConsoleEncoder = "console"
	// JSONEncoder writes one json object per line.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stdout

// Config for the root logger.
type Config struct {
	Level   string `mapstructure:"level"`
	Encoder string `mapstructure:"encoder"`
}

// DefaultConfig returns info level console logging.
func DefaultConfig() Config {
	return Config{
		Level:   zapcore.InfoLevel.String(),
		Encoder: ConsoleEncoder,
	}
}

// New creates a named root logger from the config.
func New(name string, cfg Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	var encoder zapcore.Encoder
	switch cfg.Encoder {
	case JSONEncoder:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case ConsoleEncoder, "":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log encoder %q", cfg.Encoder)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(logWriter), level)
	return zap.New(core).Named(name), nil
}

// ZHash32 is a field with the hex form of a hash.
func ZHash32(name string, h types.Hash32) zap.Field {
	return zap.String(name, h.Hex())
}

// ZAddress is a field with the checksummed hex form of an address.
func ZAddress(name string, a types.Address) zap.Field {
	return zap.String(name, a.Hex())
}

// ZSelector is a field with the hex form of a selector.
func ZSelector(name string, s types.Selector) zap.Field {
	return zap.Stringer(name, s)
}

// ZRoleWeight is an object field with the weight of every role.
func ZRoleWeight(name string, w keyset.RoleWeight) zap.Field {
	return zap.Object(name, w)
}
