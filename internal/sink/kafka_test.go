package sink

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"firestige.xyz/wirefp/internal/config"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/emitter"
)

func kafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:      []string{"127.0.0.1:9"},
		Topic:        "fingerprints",
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  "snappy",
		MaxAttempts:  1,
	}
}

func TestOpenSelectsKafka(t *testing.T) {
	s, err := Open(config.OutputConfig{Kafka: kafkaConfig()}, &bytes.Buffer{})
	require.NoError(t, err)
	k, ok := s.(*Kafka)
	require.True(t, ok)
	assert.Equal(t, FormatJSON, k.format)
	assert.NoError(t, k.Close())

	s, err = Open(config.OutputConfig{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &Writer{}, s)
}

func TestNewKafkaRejectsBadConfig(t *testing.T) {
	cfg := kafkaConfig()
	cfg.Topic = ""
	_, err := NewKafka(FormatJSON, cfg)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	cfg = kafkaConfig()
	cfg.Compression = "brotli"
	_, err = NewKafka(FormatJSON, cfg)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	_, err = Open(config.OutputConfig{Format: "xml", Kafka: kafkaConfig()}, nil)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	_, err = Open(config.OutputConfig{Format: FormatText, Kafka: kafkaConfig()}, nil)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestCompressionCodec(t *testing.T) {
	for _, name := range []string{"", "none"} {
		c, err := compressionCodec(name)
		require.NoError(t, err)
		assert.Nil(t, c)
	}
	for _, name := range []string{"gzip", "snappy", "lz4"} {
		c, err := compressionCodec(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

func TestMessageKey(t *testing.T) {
	rec := emitter.NewRecord()
	rec.String(core.KeySrcIP, "10.0.0.1")
	rec.String(core.KeyDstIP, "10.0.0.2")
	assert.Equal(t, "10.0.0.1-10.0.0.2", string(messageKey(rec)))

	assert.Nil(t, messageKey(testRecord(80)))
}

func TestKafkaEncode(t *testing.T) {
	rec := testRecord(443)

	k := &Kafka{format: FormatJSON}
	b, err := k.encode(rec)
	require.NoError(t, err)
	assert.JSONEq(t, rec.JSON(), string(b))

	k.format = FormatProtobuf
	b, err = k.encode(rec)
	require.NoError(t, err)
	var msg structpb.Struct
	require.NoError(t, proto.Unmarshal(b, &msg))
	assert.Equal(t, "10.0.0.1", msg.Fields["src_ip"].GetStringValue())
	assert.EqualValues(t, 443, msg.Fields["dst_port"].GetNumberValue())
}

func TestKafkaWriteAfterClose(t *testing.T) {
	k, err := NewKafka(FormatJSON, kafkaConfig())
	require.NoError(t, err)
	require.NoError(t, k.Close())
	require.NoError(t, k.Close())

	assert.ErrorIs(t, k.Write(testRecord(1)), core.ErrSinkClosed)
	assert.Zero(t, k.Written())
}
