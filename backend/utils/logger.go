package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig describes how the application logger is built.
type LoggerConfig struct {
	// text or json
	Format string
	// debug, info, warn, error
	Level string
	// Output defaults to os.Stdout
	Output zapcore.WriteSyncer
	// EnableColors colours levels in text output
	EnableColors bool
}

// InitLogger builds the application logger. JSON output uses the production
// encoder, text output the development console encoder.
func InitLogger(config ...LoggerConfig) *zap.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = zapcore.Lock(os.Stdout)
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
			level.SetLevel(parsed)
		}
	}

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "time"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		if cfg.EnableColors {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, cfg.Output, level)
	return zap.New(core, zap.AddCaller()).With(zap.String("app", "learnhub"))
}
