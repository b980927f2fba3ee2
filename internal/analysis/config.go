package analysis

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config selects what the engine parses and how much it writes.
type Config struct {
	// OutputMetadata adds protocol details beyond the fingerprint-relevant
	// fields to every record.
	OutputMetadata bool `mapstructure:"output_metadata" yaml:"output_metadata"`

	Protocols ProtocolConfig `mapstructure:"protocols" yaml:"protocols"`
}

// ProtocolConfig enables individual parsers. A disabled protocol is still
// classified but never parsed.
type ProtocolConfig struct {
	TLS       bool `mapstructure:"tls" yaml:"tls"`
	DTLS      bool `mapstructure:"dtls" yaml:"dtls"`
	HTTP      bool `mapstructure:"http" yaml:"http"`
	MySQL     bool `mapstructure:"mysql" yaml:"mysql"`
	Tofsee    bool `mapstructure:"tofsee" yaml:"tofsee"`
	DNS       bool `mapstructure:"dns" yaml:"dns"`
	DHCP      bool `mapstructure:"dhcp" yaml:"dhcp"`
	QUIC      bool `mapstructure:"quic" yaml:"quic"`
	WireGuard bool `mapstructure:"wireguard" yaml:"wireguard"`
}

// DefaultConfig enables every protocol without metadata.
func DefaultConfig() Config {
	return Config{
		Protocols: ProtocolConfig{
			TLS:       true,
			DTLS:      true,
			HTTP:      true,
			MySQL:     true,
			Tofsee:    true,
			DNS:       true,
			DHCP:      true,
			QUIC:      true,
			WireGuard: true,
		},
	}
}

// DecodeConfig overlays a loosely typed option map onto DefaultConfig.
// Unknown keys are rejected.
func DecodeConfig(opts map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if len(opts) == 0 {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(opts); err != nil {
		return cfg, fmt.Errorf("decode analysis options: %w", err)
	}
	return cfg, nil
}
