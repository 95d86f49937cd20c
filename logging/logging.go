// Package logging builds the zap loggers used during a session: one on the
// console, and once the participant is known, a tee into the participant's
// log file under the results directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// NewConsole logs to w, at debug level when verbose is set.
func NewConsole(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(w), level)
	return zap.New(core)
}

// File is a session log file. Close syncs the logger before closing.
type File struct {
	Logger *zap.Logger
	file   *os.File
}

// NewFile returns a logger that writes to console and to path at info
// level. The directory of path is created if needed.
func NewFile(console *zap.Logger, path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	fileCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(f), zapcore.InfoLevel)
	logger := console.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	return &File{Logger: logger, file: f}, nil
}

func (f *File) Close() error {
	_ = f.Logger.Sync()
	return f.file.Close()
}
