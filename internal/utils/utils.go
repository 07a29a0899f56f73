package utils

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

var Log = log.New()

// SetLogLevel maps a CLI level string onto the process logger.
func SetLogLevel(level string) error {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info", "":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		return fmt.Errorf("bad log level %q", level)
	}
	return nil
}

// Today returns the ISO date the backend uses for new colour and labour rows.
func Today() string {
	return nowFunc().Format("2006-01-02")
}
