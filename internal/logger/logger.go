// Package logger wires the process-wide zap logger. Commands that want
// log output call InitLogger once at startup; until then the global is
// a no-op so library code can log unconditionally.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global sugared logger.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Rotation policy for the on-disk log.
const (
	maxSizeMB  = 64
	maxBackups = 7
)

// InitLogger routes logs to stderr for the console and to a rotating
// JSON file named <name>.log under dir.
func InitLogger(name, dir string) {
	if dir == "" {
		dir = "logs"
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), zapcore.InfoLevel),
	)
	Logger = zap.New(core).Sugar()
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = Logger.Sync()
}
