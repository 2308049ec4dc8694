package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/groundworks-go/internal/infrastructure/config"
)

// LogrusLogger implements the application WorkshopLogger port on top of logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps an existing logrus entry
func NewLogrusLogger(entry *logrus.Entry) *LogrusLogger {
	return &LogrusLogger{entry: entry}
}

// NewFromConfig builds a logger from the logging config section. The returned
// closer releases the log file when output is "file"; it is a no-op otherwise.
func NewFromConfig(cfg config.LoggingConfig, stdout, stderr io.Writer) (*LogrusLogger, io.Closer, error) {
	log := logrus.New()

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stdout":
		log.Out = stdout
	case "stderr":
		log.Out = stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		log.Out = f
		closer = f
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetReportCaller(cfg.IncludeCaller)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	entry := logrus.NewEntry(log)
	if len(cfg.Fields) > 0 {
		static := make(logrus.Fields, len(cfg.Fields))
		for k, v := range cfg.Fields {
			static[k] = v
		}
		entry = entry.WithFields(static)
	}

	return NewLogrusLogger(entry), closer, nil
}

// WithValues returns a logger that adds the given fields to every entry
func (l *LogrusLogger) WithValues(fields map[string]interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

// Log writes a message at the named level. Unknown levels log at info.
func (l *LogrusLogger) Log(level, message string, metadata map[string]interface{}) {
	entry := l.entry
	if len(metadata) > 0 {
		entry = entry.WithFields(metadata)
	}
	entry.Log(parseLevel(level), message)
}

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
