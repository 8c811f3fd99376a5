package ecs

import (
	"github.com/sirupsen/logrus"
)

// Logger is a thin structured-logging wrapper around logrus. NewLogger
// attaches no base fields; callers add fields with With, the way
// _examples/evalgo-org-eve/common/logger.go's ContextLogger scopes a
// logrus.Logger with base fields — pared down to what the ECS core itself
// needs to log (system execution, structural-change diagnostics) rather
// than that file's full HTTP/DB-service field vocabulary.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger builds a Logger backed by a fresh logrus.Logger configured from
// cfg (see internal/engineconfig).
func NewLogger(level string, jsonFormat bool) *Logger {
	base := logrus.New()
	switch level {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}
	if jsonFormat {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// With returns a child Logger with an additional structured field.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
