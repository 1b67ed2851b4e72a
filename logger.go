package resave

import "github.com/sirupsen/logrus"

// Logger receives one line per middleware event. Info carries the normal
// lifecycle lines (compiled, saved, served); Error carries compile and save
// failures.
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// NopLogger returns a Logger that discards everything. It is the default
// when Options.Log is nil.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Info(string)  {}
func (nopLogger) Error(string) {}

// LoggerFuncs builds a Logger from two plain functions. Either may be nil,
// in which case that level is discarded.
func LoggerFuncs(info, err func(msg string)) Logger {
	return funcLogger{info: info, err: err}
}

type funcLogger struct {
	info func(string)
	err  func(string)
}

func (l funcLogger) Info(msg string) {
	if l.info != nil {
		l.info(msg)
	}
}

func (l funcLogger) Error(msg string) {
	if l.err != nil {
		l.err(msg)
	}
}

// NewLogrusLogger adapts a logrus logger to the Logger interface, mapping
// Info and Error onto the matching logrus levels.
func NewLogrusLogger(logger *logrus.Logger) Logger {
	return &logrusLogger{logger: logger}
}

type logrusLogger struct {
	logger *logrus.Logger
}

func (l *logrusLogger) Info(msg string)  { l.logger.Info(msg) }
func (l *logrusLogger) Error(msg string) { l.logger.Error(msg) }
