package util

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogLevel maps the LOG_LEVEL environment value onto the logger, defaulting to info
func SetLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToLower(level) {
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// NewLogger builds the JSON logger shared by every function in this repo
func NewLogger(level string, isLocal bool) *logrus.Logger {
	logger := logrus.New()
	SetLogLevel(logger, level)
	logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: isLocal})
	return logger
}
