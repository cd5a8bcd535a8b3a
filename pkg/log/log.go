// Package log provides the Logger facade used throughout the core. It
// exists so that internal packages never import logrus directly; only
// this adapter does.
package log

import "github.com/sirupsen/logrus"

// Logger is the logging surface the core depends on.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to Logger.
type logrusLogger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus, formatted the way a terminal
// session expects: no timestamps, no color codes, level prefix kept.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Infof(format string, args ...interface{})  { g.l.Infof(format, args...) }
func (g *logrusLogger) Errorf(format string, args ...interface{}) { g.l.Errorf(format, args...) }
func (g *logrusLogger) Debugf(format string, args ...interface{}) { g.l.Debugf(format, args...) }
