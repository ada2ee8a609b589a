// Package logging provides the single shared logrus logger used across the
// ingestion/classification/fan-out pipeline.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// L returns the process-wide logger, initializing it on first use. This is
// the only static singleton in the codebase.
func L() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	})
	return logger
}

// SetLevel parses and applies level (e.g. "debug", "info", "warn") to the
// shared logger, falling back to Info on an unparseable value.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	L().SetLevel(lvl)
}

// WithChain returns a logger entry tagged with the given chain string, the
// field convention used throughout the parser and mappers.
func WithChain(chain string) *logrus.Entry {
	return L().WithField("chain", chain)
}

// WithQueue returns a logger entry tagged with the given queue name, the
// field convention used throughout the broker runtime and consumers.
func WithQueue(queue string) *logrus.Entry {
	return L().WithField("queue", queue)
}
