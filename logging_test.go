package ecs

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevelMapping(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"info":    logrus.InfoLevel,
		"unknown": logrus.InfoLevel,
	}
	for level, want := range cases {
		l := NewLogger(level, false)
		assert.Equal(t, want, l.entry.Logger.Level)
	}
}

func TestNewLoggerJSONFormatter(t *testing.T) {
	l := NewLogger("info", true)
	_, ok := l.entry.Logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestLoggerWithAddsField(t *testing.T) {
	l := NewLogger("info", false)
	scoped := l.With("entity", 42)
	assert.Equal(t, 42, scoped.entry.Data["entity"])
}
