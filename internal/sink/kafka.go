package sink

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"firestige.xyz/wirefp/internal/config"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/log"
	"firestige.xyz/wirefp/internal/metrics"
	"firestige.xyz/wirefp/pkg/emitter"
)

const kafkaWriteTimeout = 10 * time.Second

// Kafka publishes one message per record. Messages are keyed by the
// record's address pair so a flow stays on one partition.
type Kafka struct {
	format string
	topic  string
	writer *kafka.Writer

	closed  atomic.Bool
	written atomic.Uint64
}

// NewKafka creates a Kafka sink. No connection is made until the first
// write.
func NewKafka(format string, cfg config.KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka sink requires brokers and topic: %w", core.ErrConfigInvalid)
	}
	codec, err := compressionCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:          cfg.Brokers,
		Topic:            cfg.Topic,
		Balancer:         &kafka.Hash{},
		BatchSize:        cfg.BatchSize,
		BatchTimeout:     cfg.BatchTimeout,
		MaxAttempts:      cfg.MaxAttempts,
		CompressionCodec: codec,
	})

	log.GetLogger().WithFields(map[string]interface{}{
		"brokers":     cfg.Brokers,
		"topic":       cfg.Topic,
		"format":      format,
		"compression": cfg.Compression,
	}).Info("publishing records to kafka")
	return &Kafka{format: format, topic: cfg.Topic, writer: w}, nil
}

func compressionCodec(name string) (kafka.CompressionCodec, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "gzip":
		return compress.Gzip.Codec(), nil
	case "snappy":
		return compress.Snappy.Codec(), nil
	case "lz4":
		return compress.Lz4.Codec(), nil
	default:
		return nil, fmt.Errorf("kafka compression %q: %w", name, core.ErrConfigInvalid)
	}
}

// Write publishes rec and waits for the broker to acknowledge it.
func (k *Kafka) Write(rec *emitter.Record) error {
	if k.closed.Load() {
		return core.ErrSinkClosed
	}
	value, err := k.encode(rec)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
		err = k.writer.WriteMessages(ctx, kafka.Message{Key: messageKey(rec), Value: value})
		cancel()
	}
	if err != nil {
		metrics.SinkErrorsTotal.WithLabelValues("kafka").Inc()
		return fmt.Errorf("publish record to %s: %w", k.topic, err)
	}
	k.written.Add(1)
	return nil
}

func (k *Kafka) encode(rec *emitter.Record) ([]byte, error) {
	if k.format != FormatProtobuf {
		return rec.Bytes(), nil
	}
	msg, err := structpb.NewStruct(rec.Data())
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// messageKey is "src_ip-dst_ip", or nil for summaries, which carry no
// addresses.
func messageKey(rec *emitter.Record) []byte {
	d := rec.Data()
	src, ok1 := d[core.KeySrcIP].(string)
	dst, ok2 := d[core.KeyDstIP].(string)
	if !ok1 || !ok2 {
		return nil
	}
	return []byte(src + "-" + dst)
}

// Written returns the number of acknowledged records.
func (k *Kafka) Written() uint64 { return k.written.Load() }

// Close flushes pending batches. It is safe to call twice.
func (k *Kafka) Close() error {
	if k.closed.Swap(true) {
		return nil
	}
	return k.writer.Close()
}
