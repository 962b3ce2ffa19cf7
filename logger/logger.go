package logger

import "github.com/getamis/sirius/log"

var logger = log.Discard()

// Logger returns the package-level logger, a discard logger until
// SetLogger is called. Callers MUST NOT log scalars, seeds, or derived
// keys through it.
func Logger() log.Logger {
	return logger
}

// SetLogger replaces the package-level logger.
func SetLogger(l log.Logger) {
	logger = l
}
