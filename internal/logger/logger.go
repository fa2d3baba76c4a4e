package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger is the component-scoped logging contract shared by every package.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Options selects the sinks built by New.
type Options struct {
	Level  string
	Format string // "console" or "json"
	File   string // optional rotating log file
}

func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds a zerolog-backed Logger writing to stderr and, when opts.File is
// set, to a lumberjack-rotated JSON file as well.
func New(opts Options) *ZerologAdapter {
	level := ParseLevel(opts.Level).zerolog()

	var console io.Writer = os.Stderr
	if !strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	writers := []io.Writer{console}
	if file := strings.TrimSpace(opts.File); file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	if len(writers) == 1 {
		return NewZerolog(writers[0], level)
	}
	return NewZerolog(zerolog.MultiLevelWriter(writers...), level)
}

// NoOp discards everything. Used by tests and when logging is disabled.
type NoOp struct{}

func (NoOp) Debug(string, string, map[string]interface{})   {}
func (NoOp) Info(string, string, map[string]interface{})    {}
func (NoOp) Warning(string, string, map[string]interface{}) {}
func (NoOp) Error(string, error, map[string]interface{})    {}
