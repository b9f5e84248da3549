package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/stdr"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vvakame/fedlink/internal/federation"
	"github.com/vvakame/fedlink/internal/log"
)

const envPrefix = "FEDLINK"

type config struct {
	Verbosity int    `mapstructure:"verbosity"`
	Output    string `mapstructure:"output"`
	Sort      bool   `mapstructure:"sort"`
}

func defaultConfig() config {
	return config{
		Verbosity: 0,
		Output:    "yaml",
		Sort:      false,
	}
}

// app carries what every subcommand needs. It is built by the root command
// before a subcommand runs.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config
	catalog *federation.Catalog
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "fedlink",
		Short: "Inspect and prepare federated subgraph schemas linking versioned specs",
		Long: `fedlink reads subgraph SDL, resolves the specs it links with @link
and applies the cost and connect specs to it.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	defaults := defaultConfig()
	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./.fedlink.yaml or ~/.config/fedlink/config.yaml)")
	rootCmd.PersistentFlags().IntP("verbosity", "v", defaults.Verbosity,
		"log verbosity, logs go to stderr")
	rootCmd.PersistentFlags().StringP("output", "o", defaults.Output,
		"output format of structured results: yaml or json")
	rootCmd.PersistentFlags().Bool("sort", defaults.Sort,
		"print SDL with definitions sorted by name")

	for _, name := range []string{"verbosity", "output", "sort"} {
		_ = a.v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(
		newSpecsCmd(a),
		newParseURLCmd(a),
		newNamesCmd(a),
		newPrepareCmd(a),
		newCopyCostCmd(a),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	defaults := defaultConfig()
	a.v.SetDefault("verbosity", defaults.Verbosity)
	a.v.SetDefault("output", defaults.Output)
	a.v.SetDefault("sort", defaults.Sort)

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. .fedlink.yaml (current directory)
		// 2. ~/.config/fedlink/config.yaml (user config)
		if _, err := os.Stat(".fedlink.yaml"); err == nil {
			a.v.SetConfigFile(".fedlink.yaml")
		} else {
			home, _ := os.UserHomeDir()
			a.v.AddConfigPath(filepath.Join(home, ".config", "fedlink"))
			a.v.SetConfigName("config")
			a.v.SetConfigType("yaml")
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	switch a.cfg.Output {
	case "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q, use yaml or json", a.cfg.Output)
	}

	stdr.SetVerbosity(a.cfg.Verbosity)
	logger := stdr.New(stdlog.New(cmd.ErrOrStderr(), "", stdlog.LstdFlags))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(log.WithLogger(ctx, logger))

	catalog, err := federation.NewCatalog()
	if err != nil {
		return err
	}
	a.catalog = catalog

	logger.V(1).Info("config loaded", "file", a.v.ConfigFileUsed(), "output", a.cfg.Output)

	return nil
}

// print writes v in the configured output format.
func (a *app) print(w io.Writer, v interface{}) error {
	var b []byte
	var err error
	switch a.cfg.Output {
	case "json":
		b, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			b = append(b, '\n')
		}
	default:
		b, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// readService parses the SDL at filePath. The service is named after the
// file unless name is given.
func readService(filePath, name string) (*federation.ServiceDefinition, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	schemaDoc, gErr := parser.ParseSchema(&ast.Source{
		Name:  filePath,
		Input: string(b),
	})
	if gErr != nil {
		return nil, gErr
	}

	return &federation.ServiceDefinition{
		TypeDefs: schemaDoc,
		Name:     name,
	}, nil
}
