// Package cmd provides the CLI commands of facet.
package cmd

import (
	"fmt"
	"os"

	"github.com/indigo-web/facet/config"
	"github.com/spf13/cobra"
)

// NewRoot returns the root command with all the subcommands attached.
func NewRoot() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "facet",
		Short: "facet - static HTTP endpoints behind an attribute router",
		Long: `facet serves statically configured responses, picking one by request attributes:
method, path segments, query parameters, cookies, headers and form parameters.
Every response passes through a pipeline taking care of conditional requests,
byte ranges, compression, charsets and Content-Length.

Environment variables override scalar config values with the ` + config.EnvPrefix + `_ prefix.
Example: ` + config.EnvPrefix + `_SERVER_ADDR=:9090`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file in YAML (default: environment and defaults only)")

	load := func() (*config.Config, error) {
		return config.Load(cfgFile)
	}

	root.AddCommand(
		newServeCmd(load),
		newConfigCmd(load),
		newRoutesCmd(load),
	)

	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type loader func() (*config.Config, error)
