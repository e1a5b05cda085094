// Package logging wraps logrus in the small key/value interface this
// module's listener and transfer engine depend on, so neither has to know
// which logging library is behind it.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key/value pairs attached to a log line.
type Fields = logrus.Fields

// Logger is the logging surface the rest of this module depends on.
type Logger interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New builds a Logger writing to out. verbose raises the level to Debug;
// otherwise only Info and above are emitted.
func New(out io.Writer, verbose bool) Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

var std = New(os.Stderr, false)

// Default returns the package-level logger, writing to stderr at Info
// level. Server and the transfer engine fall back to it when no Logger is
// supplied.
func Default() Logger { return std }

func (l *logrusLogger) Info(msg string, fields Fields) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields Fields) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *logrusLogger) Error(msg string, fields Fields) {
	l.entry.WithFields(fields).Error(msg)
}
