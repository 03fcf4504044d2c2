// Package logger builds the structured zap logger shared by every component.
// Components receive a *zap.SugaredLogger tagged with their name through
// Component and log with snake_case event names and key/value pairs.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultFilename   = "app.log"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 7
	defaultMaxAgeDays = 30
)

// Options configures the log output. Logs always go to stdout; when Dir is
// set they are also written to a rotated file there.
type Options struct {
	Level      string
	Format     string // "json" or "console"
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a logger from opts. An unknown level falls back to info.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if lvl, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level)); err == nil {
		level.SetLevel(lvl)
	}

	encoder := newEncoder(opts.Format)
	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)}

	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(
			newEncoder("json"),
			zapcore.AddSync(rotatingFile(dir, opts)),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// NewWriter builds a JSON logger writing to w. Used by tests.
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	return zap.New(zapcore.NewCore(newEncoder("json"), zapcore.AddSync(w), level))
}

// Component returns a sugared logger tagged with the component name.
func Component(l *zap.Logger, name string) *zap.SugaredLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.Sugar().With("component", name)
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder

	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

func rotatingFile(dir string, opts Options) *lumberjack.Logger {
	filename := strings.TrimSpace(opts.Filename)
	if filename == "" {
		filename = defaultFilename
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, filename),
		MaxSize:    positiveOr(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: positiveOr(opts.MaxBackups, defaultMaxBackups),
		MaxAge:     positiveOr(opts.MaxAgeDays, defaultMaxAgeDays),
		Compress:   opts.Compress,
	}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
