// Package logging builds the logrus logger shared by the CLI and the TUI.
package logging

import (
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type Options struct {
	Level string
	// Debug forces the debug level, as does DEBUG=true in the environment
	Debug bool
	// File receives the output when set; the TUI owns the terminal so it always logs here
	File string
}

// New returns a logger and a function that releases its output
func New(opts Options) (*log.Logger, func() error, error) {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level := log.InfoLevel
	if opts.Level != "" {
		lvl, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = lvl
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); opts.Debug || (err == nil && dbg) {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	closer := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(f)
		logger.SetFormatter(&log.JSONFormatter{})
		closer = f.Close
	}
	return logger, closer, nil
}
