package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/config"
)

// app holds state shared by every subcommand.
type app struct {
	configPath string
	pretty     bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "propctl",
		Short: "Graph property marshalling tool",
		Long: `propctl converts between nested JSON property bags and the flat,
multi-valued property form used by property-graph stores.

Input is read from the file named by the last argument, or from stdin when
the argument is omitted or "-". Output is JSON on stdout.

Examples:
  # Show the property writes for a vertex
  echo '{"name":"Alice","tags":["a","b"]}' | propctl encode --kind vertex

  # Rebuild a vertex record returned by a query
  propctl decode --kind vertex record.json

  # Store a vertex in the configured backend and read it back
  propctl --config graphprops.yaml put --label person alice.json
  propctl --config graphprops.yaml props --kind vertex <id>`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to graphprops.yaml (file or directory)")
	root.PersistentFlags().BoolVar(&a.pretty, "pretty", false, "Indent JSON output")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.aggregateCmd(),
		a.normalizeCmd(),
		a.putCmd(),
		a.propsCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.cfg = &config.Config{}
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.logger = a.cfg.Logger(cmd.ErrOrStderr())
	return nil
}

func (a *app) codec() *graphprops.Codec {
	return graphprops.New(a.cfg.CodecOptions(a.logger)...)
}

func kindFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "kind", "k", "vertex", "Element kind: vertex or edge")
}
