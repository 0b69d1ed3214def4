package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "skim").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skim.log"), nil
}

// setupLog discards logs unless debug is set, in which case they are
// appended to a file in the cache directory. The reader owns the terminal,
// so logs never go to stderr.
func setupLog(debug bool) (func() error, error) {
	log.SetOutput(io.Discard)
	if !debug {
		return func() error { return nil }, nil
	}

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
