package interfaces

// Logger is the logging interface used across the application. The
// zerolog-backed implementation lives in core/infrastructure/logging.
type Logger interface {
	Error(message string)
	Errorf(format string, args ...any)
	Warn(message string)
	Warnf(format string, args ...any)
	Info(message string)
	Infof(format string, args ...any)
	Debug(message string)
	Debugf(format string, args ...any)
}
