package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/wirefp/internal/analysis"
	"firestige.xyz/wirefp/internal/config"
	"firestige.xyz/wirefp/pkg/emitter"
	"firestige.xyz/wirefp/plugins/parser/udp"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <hex>",
	Short: "Classify and parse a single transport payload",
	Long: `Classify a TCP or UDP payload given in hex and print the parsed record.

Whitespace and colons in the hex string are ignored.

Examples:
  wirefp classify 474554202f20485454502f312e310d0a0d0a
  wirefp classify --transport udp 0100000078563412...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFile)
		if err != nil {
			exitWithError("failed to load config", err)
		}
		if cmd.Flags().Changed("metadata") {
			cfg.Analysis.OutputMetadata = classifyMetadata
		}
		return runClassify(os.Stdout, cfg, classifyTransport, args[0])
	},
}

var (
	classifyTransport string
	classifyMetadata  bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyTransport, "transport", "t", "tcp", "transport of the payload: tcp or udp")
	classifyCmd.Flags().BoolVar(&classifyMetadata, "metadata", false, "include protocol metadata")
}

func runClassify(out io.Writer, cfg *config.GlobalConfig, transport, hexPayload string) error {
	payload, err := decodeHex(hexPayload)
	if err != nil {
		return err
	}

	var (
		class string
		rec   analysis.Record
	)
	protos := cfg.Analysis.Protocols
	switch strings.ToLower(transport) {
	case "tcp":
		class = analysis.ClassifyTCP(payload).String()
		rec = analysis.ParseTCP(payload, protos)
	case "udp":
		class = udp.Classify(payload).String()
		rec = analysis.ParseUDP(payload, protos)
	default:
		return fmt.Errorf("unknown transport %q, must be tcp or udp", transport)
	}

	fmt.Fprintf(out, "%s: %s (%d bytes)\n", transport, class, len(payload))
	if rec.Kind == analysis.KindNone {
		fmt.Fprintln(out, "no record")
		return nil
	}
	if t, fp := rec.Fingerprint(); t != analysis.FingerprintTypeUnknown {
		fmt.Fprintf(out, "fingerprint: %s/%s\n", t, fp)
	}
	doc := emitter.NewRecord()
	rec.WriteJSON(doc, cfg.Analysis.OutputMetadata)
	fmt.Fprintln(out, doc.JSON())
	return nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	return b, nil
}
