// Package sink writes analysis records as JSON lines, length-delimited
// protobuf Structs or summary text, to stdout, a rotated file or a Kafka
// topic.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/wirefp/internal/config"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/log"
	"firestige.xyz/wirefp/internal/metrics"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatProtobuf = "protobuf"
	FormatText     = "text"
)

// Sink receives records. Implementations are safe for concurrent use.
type Sink interface {
	Write(rec *emitter.Record) error
	Close() error
}

// TextSink takes summaries as preformatted text when IsText reports true.
type TextSink interface {
	Sink
	IsText() bool
	WriteText(fn func(w io.Writer) error) error
}

// Writer is the file and stdout Sink.
type Writer struct {
	format string

	mu     sync.Mutex
	buf    *bufio.Writer
	closer io.Closer

	written atomic.Uint64
}

// Open creates the sink cfg selects: Kafka when brokers are configured,
// otherwise New.
func Open(cfg config.OutputConfig, stdout io.Writer) (Sink, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return New(cfg, stdout)
	}
	format, err := normalizeFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return nil, fmt.Errorf("kafka sink cannot write %s: %w", format, core.ErrConfigInvalid)
	}
	return NewKafka(format, cfg.Kafka)
}

func normalizeFormat(f string) (string, error) {
	format := strings.ToLower(f)
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatProtobuf && format != FormatText {
		return "", fmt.Errorf("output format %q: %w", f, core.ErrConfigInvalid)
	}
	return format, nil
}

// New creates a file or stdout sink from cfg. An empty cfg.Path writes to stdout.
func New(cfg config.OutputConfig, stdout io.Writer) (*Writer, error) {
	format, err := normalizeFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return NewWriter(format, stdout, nil), nil
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.Rotation.MaxSizeMB,
		MaxAge:     cfg.Rotation.MaxAgeDays,
		MaxBackups: cfg.Rotation.MaxBackups,
		Compress:   cfg.Rotation.Compress,
	}
	log.GetLogger().WithFields(map[string]interface{}{
		"path":   cfg.Path,
		"format": format,
	}).Info("writing records to file")
	return NewWriter(format, lj, lj), nil
}

// NewWriter writes records to w. A non-nil closer is closed by Close.
func NewWriter(format string, w io.Writer, closer io.Closer) *Writer {
	return &Writer{
		format: format,
		buf:    bufio.NewWriter(w),
		closer: closer,
	}
}

// Write encodes one record. The text format writes records as JSON lines;
// summaries reach it through WriteText.
func (s *Writer) Write(rec *emitter.Record) error {
	var err error
	s.mu.Lock()
	if s.buf == nil {
		err = core.ErrSinkClosed
	} else if s.format == FormatProtobuf {
		err = s.writeProto(rec)
	} else {
		_, err = s.buf.Write(rec.Bytes())
		if err == nil {
			err = s.buf.WriteByte('\n')
		}
	}
	s.mu.Unlock()

	if err != nil {
		metrics.SinkErrorsTotal.WithLabelValues(s.format).Inc()
		return fmt.Errorf("write %s record: %w", s.format, err)
	}
	s.written.Add(1)
	return nil
}

func (s *Writer) writeProto(rec *emitter.Record) error {
	msg, err := structpb.NewStruct(rec.Data())
	if err != nil {
		return err
	}
	_, err = protodelim.MarshalTo(s.buf, msg)
	return err
}

// IsText reports whether the writer was created with FormatText.
func (s *Writer) IsText() bool { return s.format == FormatText }

// WriteText runs fn against the buffered destination and ends the block
// with a blank line.
func (s *Writer) WriteText(fn func(w io.Writer) error) error {
	var err error
	s.mu.Lock()
	if s.buf == nil {
		err = core.ErrSinkClosed
	} else if err = fn(s.buf); err == nil {
		err = s.buf.WriteByte('\n')
	}
	s.mu.Unlock()

	if err != nil {
		metrics.SinkErrorsTotal.WithLabelValues(s.format).Inc()
		return fmt.Errorf("write %s record: %w", s.format, err)
	}
	s.written.Add(1)
	return nil
}

// Written returns the number of records written.
func (s *Writer) Written() uint64 { return s.written.Load() }

// Flush writes buffered records through.
func (s *Writer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil
	}
	return s.buf.Flush()
}

// Close flushes and releases the destination. It is safe to call twice.
func (s *Writer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil
	}
	err := s.buf.Flush()
	s.buf = nil
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
