package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

// MaxLogSize is the size past which an existing log file is rotated to path.1
const MaxLogSize = 10 * 1024 * 1024

// OpenLog returns a text logger appending to path, or a discarding logger when path is empty.
// The returned closer is never nil.
func OpenLog(path string, debug bool) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}, nil
	}

	if err := rotateLog(path); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening log file %s", path)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// rotateLog moves an oversized log to path.1, replacing any previous rotation
func rotateLog(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxLogSize {
		return nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return errors.Wrapf(err, "rotating log file %s", path)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Bootstrap loads the config file at configPath (defaults when empty) and opens the log.
// The caller closes the returned closer.
func Bootstrap(configPath, logPath string, debug bool) (*Config, *slog.Logger, io.Closer, error) {
	cfg := Default()
	if configPath != "" {
		var err error
		if cfg, err = Load(configPath); err != nil {
			return nil, nil, nil, err
		}
	}

	logger, closer, err := OpenLog(logPath, debug)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}
