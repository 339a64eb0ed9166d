package cli

import (
	"io"

	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/fileutil"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/nodix/pipeconf/pkg/pipeline"
	"github.com/nodix/pipeconf/pkg/tty"
	"github.com/spf13/cobra"
)

var normalizeLog = logger.New("cli:normalize_command")

// NewNormalizeCommand creates the normalize command
func NewNormalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print a configuration file with every default filled in",
		Long: `Validate a Bitbucket Pipelines configuration file and print the normalized
document as YAML: defaults are filled in, keys are emitted in a fixed order,
and keys the format does not declare are kept as written.

The output is itself a valid configuration that normalizes to the same
document.

Examples:
  ` + string(constants.CLIName) + ` normalize                      # Normalize ./` + constants.DefaultPipelineFile + `
  ` + string(constants.CLIName) + ` normalize ci/pipelines.yml > out.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			return RunNormalize(arg, validationOptionsFromFlags(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addValidationFlags(cmd)

	return cmd
}

// RunNormalize writes the normalized YAML of the file named by arg to stdout.
// Validation problems go to stderr.
func RunNormalize(arg string, opts ValidationOptions, stdout, stderr io.Writer) error {
	path, err := fileutil.ResolvePipelineFile(arg)
	if err != nil {
		return err
	}
	normalizeLog.Printf("Normalizing %s", path)

	result := ValidateFile(path, opts)
	if !result.Valid {
		writeHumanResults(stderr, []FileResult{result}, tty.IsStderrTerminal())
		return validationFailure(1)
	}

	out, err := pipeline.MarshalDocument(result.Document())
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
