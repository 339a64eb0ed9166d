package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nodix/pipeconf/pkg/cli"
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/spf13/cobra"
)

// Build-time variables.
var (
	version = "dev"
)

var mainLog = logger.New("main")

var rootCmd = &cobra.Command{
	Use:     string(constants.CLIName),
	Short:   "Validate and normalize Bitbucket Pipelines configuration",
	Version: version,
	Long: `pipeconf checks Bitbucket Pipelines configuration files against the
configuration format and reports every problem with its document path and
source position. Valid files can be printed in normalized form with every
default filled in.

Common Tasks:
  ` + string(constants.CLIName) + ` validate              # Validate ./` + constants.DefaultPipelineFile + `
  ` + string(constants.CLIName) + ` validate --json       # Machine-readable results
  ` + string(constants.CLIName) + ` normalize             # Print the normalized document
  ` + string(constants.CLIName) + ` schema                # Print the JSON Schema

Set DEBUG=* (or DEBUG=pipeline:*) to enable debug logging.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "validation", Title: "Validation Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "utilities", Title: "Utilities:"})

	validateCmd := cli.NewValidateCommand()
	validateCmd.GroupID = "validation"
	normalizeCmd := cli.NewNormalizeCommand()
	normalizeCmd.GroupID = "validation"

	schemaCmd := cli.NewSchemaCommand()
	schemaCmd.GroupID = "utilities"
	mcpServerCmd := cli.NewMCPServerCommand()
	mcpServerCmd.GroupID = "utilities"

	rootCmd.AddCommand(validateCmd, normalizeCmd, schemaCmd, mcpServerCmd, cli.NewVersionCommand())
	rootCmd.SetVersionTemplate(string(constants.CLIName) + " version {{.Version}}\n")
}

func main() {
	cli.SetVersionInfo(version)
	rootCmd.Version = cli.GetVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainLog.Printf("Starting %s %s", constants.CLIName, cli.GetVersion())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Validation problems have already been reported.
		if !errors.Is(err, cli.ErrValidationFailed) {
			cli.PrintValidationError(err)
		}
		stop()
		os.Exit(1)
	}
}
