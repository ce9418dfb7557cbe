package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger. Output goes to file when set, else to
// fallback. The returned func closes the file.
func newLogger(level, file string, fallback io.Writer) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetOutput(fallback)
	logger.SetLevel(logrus.WarnLevel)

	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level: %w", err)
		}
		logger.SetLevel(lvl)
	}

	if file == "" {
		return logger, func() {}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return logger, func() { f.Close() }, nil
}
