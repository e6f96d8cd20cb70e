package wireline

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the ambient logging capability threaded through the engine
// and the subscription registry. Grounded on MiniToolStreamEgress's
// pkg/logger.Logger wrapper around *zap.Logger, trimmed to the handful
// of levels this module actually emits.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LoggerConfig mirrors MiniToolStreamEgress's logger Config: level and
// output format are the two knobs callers actually reach for.
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// zapLogger adapts *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds the default Logger from a LoggerConfig.
func NewZapLogger(cfg LoggerConfig) (Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, NewError(ErrArgument, "invalid log level "+cfg.Level)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	logger := zap.New(core)
	return &zapLogger{sugar: logger.Sugar()}, nil
}

func (l *zapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// nopLogger discards everything. Used when no Logger is configured.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...interface{}) {}
func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Warnf(format string, args ...interface{})  {}
func (nopLogger) Errorf(format string, args ...interface{}) {}

// NewNopLogger returns a Logger that discards all output.
func NewNopLogger() Logger { return nopLogger{} }
