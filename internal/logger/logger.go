// Package logger writes structured logs to a rotated file under the config
// directory. File-only by default so the TUI and command output stay clean;
// debug mode tees to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the log file.
const (
	maxSizeMB  = 10
	maxFiles   = 3
	maxAgeDays = 28
)

// Logger is the process-wide logger. Nil until Init; the package wrappers
// below tolerate that so early startup failures can still be reported.
var Logger *log.Logger

var logPath string

type Config struct {
	Debug     bool
	ConfigDir string
}

// Init sets up the rotated file logger inside cfg.ConfigDir.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	logPath = filepath.Join(logDir, "ritual.log")

	writer := io.Writer(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxFiles,
		MaxAge:     maxAgeDays,
		Compress:   true,
	})
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           resolveLevel(cfg.Debug),
		Prefix:          "ritual",
	})
	return nil
}

// resolveLevel picks the log level: warnings by default, everything in
// debug mode, with RITUAL_LOG_LEVEL overriding both.
func resolveLevel(debug bool) log.Level {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	if env := os.Getenv("RITUAL_LOG_LEVEL"); env != "" {
		if parsed, err := log.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	return level
}

// GetLogPath returns the path of the active log file, or "" before Init.
func GetLogPath() string {
	return logPath
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits even when the logger was never initialized.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
