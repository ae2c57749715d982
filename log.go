package rc

import (
	"log/slog"
	"sync/atomic"
)

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for lifecycle events. Passing nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

// Logger returns the logger set with SetLogger, or slog.Default(). Packages
// built on rc log through it so one SetLogger call covers them too.
func Logger() *slog.Logger {
	return logger()
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
