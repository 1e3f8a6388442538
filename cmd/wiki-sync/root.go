/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/structs"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/toothbrush/devops-wiki-sync/internal/logging"
	"github.com/toothbrush/devops-wiki-sync/internal/termfmt"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "~/.config/wiki-sync.yaml"

var (
	// Store the result of binding cobra flags
	Config    string
	Debug     bool
	LogFormat string
	NoColor   bool

	// The config file actually read, after env and homedir resolution.  Empty if none was found.
	ConfigActual string

	ParsedConfig YamlConfig
	Env          EnvConfig

	Logger = logging.NewLogger(logging.Options{})
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "wiki-sync",
	Short: "Publish a local docs tree to an Azure DevOps wiki",
	Long: `
Generated documentation goes stale the moment it's pasted into a wiki.  This tool mirrors a local
tree of markdown files onto an Azure DevOps wiki, page for file, and moves pages whose files have
disappeared into an archive instead of deleting them.
`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("wiki-sync: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/wiki-sync.yaml, respects WIKI_SYNC_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&LogFormat, "log-format", logging.FormatPretty, "log output format, pretty or json (respects WIKI_SYNC_LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "disable colours in logs and summaries")
}

// EnvConfig is read from the environment, after an optional .env in the working directory.
type EnvConfig struct {
	Config    string `env:"WIKI_SYNC_CONFIG" yaml:"WIKI_SYNC_CONFIG"`
	Token     string `env:"WIKI_SYNC_TOKEN" yaml:"WIKI_SYNC_TOKEN"`
	LogFormat string `env:"WIKI_SYNC_LOG_FORMAT" yaml:"WIKI_SYNC_LOG_FORMAT"`
}

func loadEnv() (EnvConfig, error) {
	cfg := EnvConfig{}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("wiki-sync: couldn't load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("wiki-sync: couldn't parse environment: %w", err)
	}
	return cfg, nil
}

func initializeConfig(cmd *cobra.Command) error {
	var err error
	if Env, err = loadEnv(); err != nil {
		return err
	}

	logFormatGiven := cmd.Flags().Changed("log-format")

	// Only complain about a missing file if somebody asked for it.
	explicit := true
	if Config == "" {
		if Env.Config != "" {
			Config = Env.Config
		} else {
			Config = defaultConfigPath
			explicit = false
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("wiki-sync: unable to expand homedir: %w", err)
	}
	Config = config

	ParsedConfig = YamlConfig{}
	ConfigActual = ""
	yamlFile, err := os.ReadFile(Config)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config is fine
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("wiki-sync: specified config file %s does not exist: %w", Config, err)
	case err != nil:
		return fmt.Errorf("wiki-sync: error reading config file: %w", err)
	default:
		ConfigActual = Config
		// Bark if a user sets a key we don't recognise:
		if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
			return fmt.Errorf("wiki-sync: issue parsing config file %s: %w", Config, err)
		}
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("wiki-sync: failed to bind flags: %w", err)
	}

	// flag > environment > config file
	if !logFormatGiven && Env.LogFormat != "" {
		LogFormat = Env.LogFormat
	}
	if !logging.ValidFormat(LogFormat) {
		return fmt.Errorf("wiki-sync: unknown log format '%s', use pretty or json", LogFormat)
	}

	Logger = newLogger()
	termfmt.Enable(!NoColor)

	Logger.Debug().Str("config", ConfigActual).Msg("Configuration loaded")
	return nil
}

func newLogger() zerolog.Logger {
	return logging.NewLogger(logging.Options{
		Format:  LogFormat,
		Verbose: Debug,
		NoColor: NoColor,
	})
}

// YamlConfig keys match flag names.  Flags given on the command line win.
type YamlConfig struct {
	Debug       *bool `yaml:"debug"`
	NoColor     *bool `yaml:"no-color"`
	ConvertHTML *bool `yaml:"convert-html"`
	DryRun      *bool `yaml:"dry-run"`
	Progress    *bool `yaml:"progress"`
	WithVCR     *bool `yaml:"with-vcr"`

	LogFormat      string `yaml:"log-format"`
	DocsDir        string `yaml:"docs-dir"`
	SourceDir      string `yaml:"source-dir"`
	VCRCassette    string `yaml:"vcr-cassette"`
	RequestTimeout string `yaml:"request-timeout"`

	GenerateCmd []string `yaml:"generate-cmd"`
}

// Bind each cobra flag to its value from the config file, unless it was set on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("wiki-sync: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// e.g. `list pages` has no `docs-dir` flag, but the YAML file may well define it.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			// YamlConfig only uses pointers for bools.
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("wiki-sync: found unrecognised field: %+v", field)
			}
			if b != nil {
				if err := cmd.Flags().Set(key, fmt.Sprintf("%v", *b)); err != nil {
					return fmt.Errorf("wiki-sync: bad value for %s: %w", key, err)
				}
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("wiki-sync: found unrecognised field: %+v", field)
			}
			if s != "" {
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("wiki-sync: bad value for %s: %w", key, err)
				}
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("wiki-sync: found unrecognised field: %+v", field)
			}
			for _, s := range ss {
				// repeatedly calling Set() appends to the slice
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("wiki-sync: bad value for %s: %w", key, err)
				}
			}

		default:
			return fmt.Errorf("wiki-sync: found unrecognised field: %+v", field)
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		Logger.Error().Err(err).Msg("wiki-sync failed")
		return fmt.Errorf("wiki-sync: execution error: %w", err)
	}

	return nil
}
