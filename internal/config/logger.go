package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: JSON in prod, text otherwise.
// An unknown level falls back to info.
func NewLogger(c Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
