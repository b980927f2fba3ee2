package log

import (
	"fmt"
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// MultiWriter fans log output out to every appender. A failing appender does
// not stop the others.
type MultiWriter struct {
	writers []io.Writer
}

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{writers: make([]io.Writer, 0, 2)}
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		if _, e := w.Write(p); e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

// AddFile appends a size-rotated file appender.
func (m *MultiWriter) AddFile(fc FileConfig) (*MultiWriter, error) {
	if fc.Path == "" {
		return m, fmt.Errorf("file appender requires 'path'")
	}
	m.writers = append(m.writers, &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.MaxSizeMB, // megabytes
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays, // days
		Compress:   fc.Compress,
	})
	return m, nil
}

// Len returns the number of appenders.
func (m *MultiWriter) Len() int { return len(m.writers) }
