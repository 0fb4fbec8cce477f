package logging

import (
	"fmt"
	"io"
	"strings"

	"code.cloudfoundry.org/lager"
)

func NewLogger(component string, level string, w io.Writer) (lager.Logger, error) {
	minLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := lager.NewLogger(component)
	logger.RegisterSink(lager.NewWriterSink(w, minLevel))

	return logger, nil
}

func parseLevel(level string) (lager.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return lager.DEBUG, nil
	case "", "info":
		return lager.INFO, nil
	case "error":
		return lager.ERROR, nil
	case "fatal":
		return lager.FATAL, nil
	default:
		return lager.INFO, fmt.Errorf("unknown log level: %q", level)
	}
}
