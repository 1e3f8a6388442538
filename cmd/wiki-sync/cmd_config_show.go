/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}

const redacted = "REDACTED"

type configState struct {
	ConfigFile  string     `yaml:"config-file"`
	Debug       bool       `yaml:"debug"`
	LogFormat   string     `yaml:"log-format"`
	NoColor     bool       `yaml:"no-color"`
	Environment EnvConfig  `yaml:"environment"`
	Parsed      YamlConfig `yaml:"parsed"`
}

// Command-specific flags aren't visible from here, but the file they'd be read from is.
func showConfig(out io.Writer) error {
	env := Env
	if env.Token != "" {
		env.Token = redacted
	}

	state := configState{
		ConfigFile:  ConfigActual,
		Debug:       Debug,
		LogFormat:   LogFormat,
		NoColor:     NoColor,
		Environment: env,
		Parsed:      ParsedConfig,
	}

	b, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("config show: couldn't render config: %w", err)
	}

	fmt.Fprintf(out, "# current config state\n%s", b)
	return nil
}
