package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL"`
	// Sink is a zap sink url or file path, stderr when empty.
	Sink string `yaml:"sink" envconfig:"LOG_SINK"`
}

func NewLogger(cfg Log, name string) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	ws := zapcore.Lock(os.Stderr)
	if cfg.Sink != "" {
		sink, _, err := zap.Open(cfg.Sink)
		if err != nil {
			return nil, errors.Wrapf(err, "open log sink %q", cfg.Sink)
		}
		ws = sink
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, zap.NewAtomicLevelAt(cfg.LogLevel))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named(name), nil
}
