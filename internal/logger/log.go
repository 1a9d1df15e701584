package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Info(msg string)
	Error(msg string, err error)
	Debug(msg string)
	// With returns a Logger that adds the key/value pairs to every line,
	// e.g. With("user", id, "state", s) for a conversation step.
	With(args ...any) Logger
}

type CampLogger struct {
	logger *slog.Logger
}

var level = new(slog.LevelVar)

// SetLevel changes the level of every logger created by this package.
// Unknown names fall back to info.
func SetLevel(name string) {
	var l slog.Level
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	if err := l.UnmarshalText([]byte(name)); err != nil {
		l = slog.LevelInfo
	}
	level.Set(l)
}

func New(loggerName string) Logger {
	return NewWithWriter(loggerName, os.Stdout)
}

// NewWithWriter names the component with a logger=<name> attribute.
func NewWithWriter(loggerName string, w io.Writer) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	return CampLogger{slog.New(handler).With("logger", loggerName)}
}

func (cl CampLogger) With(args ...any) Logger {
	return CampLogger{cl.logger.With(args...)}
}

func (cl CampLogger) Info(msg string) {
	cl.logger.Info(msg)
}

func (cl CampLogger) Error(msg string, err error) {
	if err == nil {
		cl.logger.Error(msg)
		return
	}
	cl.logger.Error(msg, slog.Any("error", err))
}

func (cl CampLogger) Debug(msg string) {
	cl.logger.Debug(msg)
}
