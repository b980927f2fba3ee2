package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/wirefp/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file and print the effective configuration,
defaults and environment overrides applied, as YAML.

Examples:
  wirefp validate -c /etc/wirefp/config.yml
  WIREFP_OUTPUT_FORMAT=protobuf wirefp validate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(os.Stdout, configFile); err != nil {
			fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
			os.Exit(1)
		}
	},
}

func runValidate(out io.Writer, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(map[string]*config.GlobalConfig{"wirefp": cfg})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	name := path
	if name == "" {
		name = "defaults"
	}
	fmt.Fprintf(out, "VALID: %s\n", name)
	_, err = out.Write(data)
	return err
}
