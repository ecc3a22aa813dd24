package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development gets a readable
// text format at debug level; everything else logs JSON at info.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// NopLogger returns a logger that discards everything. State components
// accept nil loggers, but tests that want field assertions use this instead.
func NopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
