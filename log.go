package goldbook

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logg     *logrus.Logger
	loggOnce sync.Once
)

// Logger returns the package logger. It writes text to stderr at warning
// level until SetupLogger is called.
func Logger() *logrus.Logger {
	loggOnce.Do(func() {
		logg = logrus.New()
		logg.SetOutput(os.Stderr)
		logg.SetLevel(logrus.WarnLevel)
	})
	return logg
}

// SetupLogger configures the package logger. An invalid level keeps the
// current one.
func SetupLogger(w io.Writer, level string, json bool) {
	l := Logger()
	if w != nil {
		l.SetOutput(w)
	}
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
}
