package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habithub/internal/constants"
)

var (
	// Logger is the global logger instance. Nil means logging is disabled.
	Logger *log.Logger

	discard = log.New(io.Discard)
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default level (warn, or debug when Debug is set)
	Level string
}

// Init points the global logger at a rotating file under ConfigDir/logs.
// In debug mode output is mirrored to stderr and callers are reported.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level, err := resolveLevel(cfg)
	if err != nil {
		return err
	}

	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

func resolveLevel(cfg Config) (log.Level, error) {
	if cfg.Level != "" {
		return log.ParseLevel(cfg.Level)
	}
	if cfg.Debug {
		return log.DebugLevel, nil
	}
	return log.WarnLevel, nil
}

// Component returns a child logger tagged with the component name.
// It never returns nil.
func Component(name string) *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger.With("component", name)
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
