package cli

import (
	"fmt"

	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersionInfo sets the version reported by the CLI and the MCP server.
func SetVersionInfo(v string) {
	if v != "" {
		version = v
	}
}

// GetVersion returns the current version.
func GetVersion() string {
	return version
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.CLIName, GetVersion())
		},
	}
}
