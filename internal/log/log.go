// Package log provides the process-wide structured logger.
package log

import (
	"io"
	"os"
	"sync"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

var (
	mu     sync.RWMutex
	logger Logger = mustNew(DefaultConfig(), os.Stderr)
)

// GetLogger returns the process logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init replaces the process logger. Output always goes to stderr, leaving
// stdout to records, and when configured to a rotated file.
func Init(cfg Config) error {
	out := NewMultiWriter().Add(os.Stderr)
	if cfg.File.Enabled {
		if _, err := out.AddFile(cfg.File); err != nil {
			return err
		}
	}
	l, err := New(cfg, out)
	if err != nil {
		return err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

func mustNew(cfg Config, out io.Writer) Logger {
	l, err := New(cfg, out)
	if err != nil {
		panic(err)
	}
	return l
}
