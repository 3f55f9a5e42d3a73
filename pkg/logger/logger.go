package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger = zap.NewNop()

// Init builds the process logger. Release mode gets JSON output at the
// configured level; everything else gets the development console encoder.
func Init(level string, release bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if release {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return err
	}
	log = l
	return nil
}

// L returns the process logger.
func L() *zap.Logger { return log }

// Named returns a child logger for a subsystem.
func Named(name string) *zap.Logger { return log.Named(name) }

// Sync flushes buffered entries. Called on shutdown.
func Sync() { _ = log.Sync() }
