package cli

import (
	"fmt"
	"io"

	"github.com/nodix/pipeconf/pkg/pipeline"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration format",
		Long: `Print a JSON Schema (draft 2020-12) describing the Bitbucket Pipelines
configuration format accepted by validate. Editors with YAML language server
support can use it for completion and inline checks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunSchema(cmd.OutOrStdout())
		},
	}
}

// RunSchema writes the indented JSON Schema followed by a newline.
func RunSchema(w io.Writer) error {
	data, err := pipeline.MarshalJSONSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
