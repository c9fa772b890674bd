// Package logger wraps a charmbracelet/log logger that writes to a rotating
// file and, in verbose mode, to stderr as well.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	Level   string // debug, info, warn, error
	File    string // rotating log file, empty disables file output
	Verbose bool   // force debug level and mirror to stderr
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	var writers []io.Writer

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	if cfg.Verbose || cfg.File == "" {
		writers = append(writers, os.Stderr)
	}

	l := New(io.MultiWriter(writers...), cfg)
	if !cfg.Verbose && cfg.File != "" {
		// File only: no terminal on the other side.
		l.SetFormatter(log.JSONFormatter)
	}
	Logger = l
	return nil
}

// New builds a logger on w. The formatter is JSON unless stderr is a terminal.
func New(w io.Writer, cfg Config) *log.Logger {
	level := ParseLevel(cfg.Level)
	if cfg.Verbose {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Verbose,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "barcut",
	})
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		l.SetFormatter(log.JSONFormatter)
	}
	return l
}

// ParseLevel maps a config string to a level, falling back to info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// SetLevel changes the level of the global logger, used on config reload.
func SetLevel(s string) {
	if Logger != nil {
		Logger.SetLevel(ParseLevel(s))
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
