package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"quash/internal/config"
	"quash/internal/shell"
	"quash/internal/stage"
)

func main() {
	// Pipeline stages re-execute this binary.
	if stage.Invoked(os.Args) {
		os.Exit(stage.Main(os.Args[2:]))
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, line string

	cmd := &cobra.Command{
		Use:           "quash",
		Short:         "quash runs pipelines and tracks background jobs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			if err := cfg.LoadEnv(); err != nil {
				return err
			}

			logger := log.New(io.Discard, "", 0)
			if cfg.Debug {
				logger = log.New(os.Stderr, "quash: ", log.LstdFlags)
			}

			s, err := shell.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("error initializing shell: %w", err)
			}

			if cmd.Flags().Changed("command") {
				return s.Execute(line)
			}
			return s.Run()
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "config.yml", "path to the YAML config file")
	cmd.Flags().StringVarP(&line, "command", "c", "", "run one command line and exit")
	return cmd
}
