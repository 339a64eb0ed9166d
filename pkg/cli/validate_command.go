package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nodix/pipeconf/pkg/console"
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/fileutil"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/nodix/pipeconf/pkg/tty"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
)

var validateLog = logger.New("cli:validate_command")

// ValidateConfig holds the settings of one validate run.
type ValidateConfig struct {
	// Files are file or directory arguments; empty means the default file
	// in the working directory.
	Files          []string
	Options        ValidationOptions
	JSONOutput     bool
	Watch          bool
	MaxConcurrency int
	Verbose        bool
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]...",
		Short: "Validate Bitbucket Pipelines configuration files",
		Long: `Validate one or more Bitbucket Pipelines configuration files.

Every problem in a file is reported with its document path and source
position. Directory arguments are resolved to the ` + constants.DefaultPipelineFile + `
file they contain; with no arguments the file in the current directory is
validated.

Examples:
  ` + string(constants.CLIName) + ` validate                              # Validate ./` + constants.DefaultPipelineFile + `
  ` + string(constants.CLIName) + ` validate ci/a.yml ci/b.yml            # Validate several files
  ` + string(constants.CLIName) + ` validate --check-references           # Also resolve caches and services
  ` + string(constants.CLIName) + ` validate --deployment test --deployment production
  ` + string(constants.CLIName) + ` validate --json                       # Output results in JSON format
  ` + string(constants.CLIName) + ` validate --watch                      # Re-validate on every save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			watch, _ := cmd.Flags().GetBool("watch")
			verbose, _ := cmd.Flags().GetBool("verbose")
			maxConcurrency, err := maxConcurrencyFromFlags(cmd)
			if err != nil {
				return err
			}
			config := ValidateConfig{
				Files:          args,
				Options:        validationOptionsFromFlags(cmd),
				JSONOutput:     jsonOutput,
				Watch:          watch,
				MaxConcurrency: maxConcurrency,
				Verbose:        verbose,
			}
			return RunValidate(cmd.Context(), config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addValidationFlags(cmd)
	cmd.Flags().BoolP("json", "j", false, "Output results in JSON format")
	cmd.Flags().BoolP("watch", "w", false, "Watch the files and re-validate on change")
	cmd.Flags().Int("max-concurrency", constants.DefaultMaxConcurrency, "Number of files validated at once (env: "+constants.EnvMaxConcurrency+")")
	cmd.Flags().BoolP("verbose", "v", false, "Show progress details")
	cmd.MarkFlagsMutuallyExclusive("json", "watch")

	return cmd
}

// RunValidate validates the configured files. Human-readable output goes to
// stderr, JSON to stdout. It returns an error wrapping ErrValidationFailed
// when any file is invalid; other errors are left for the caller to print.
func RunValidate(ctx context.Context, config ValidateConfig, stdout, stderr io.Writer) error {
	validateLog.Printf("Running validate: files=%v, json=%t, watch=%t", config.Files, config.JSONOutput, config.Watch)
	files, err := resolveFiles(config.Files)
	if err != nil {
		return err
	}
	files, duplicates := dedupe(files)
	for _, file := range duplicates {
		fmt.Fprintln(stderr, console.FormatWarningMessage("skipping duplicate argument "+file))
	}
	if config.Verbose {
		fmt.Fprintln(stderr, console.FormatVerboseMessage(fmt.Sprintf("Validating %d file(s), up to %d at a time", len(files), config.MaxConcurrency)))
	}

	if config.Watch {
		return watchAndValidate(ctx, files, config, stdout, stderr)
	}
	return reportResults(validateFiles(files, config), config, stdout, stderr)
}

func resolveFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{""}
	}
	files := make([]string, 0, len(args))
	var errs []error
	for _, arg := range args {
		path, err := fileutil.ResolvePipelineFile(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, path)
	}
	return files, errors.Join(errs...)
}

// dedupe drops repeated files, keeping the first occurrence.
func dedupe(files []string) (unique, duplicates []string) {
	seen := make(map[string]bool, len(files))
	for _, file := range files {
		if seen[file] {
			duplicates = append(duplicates, file)
			continue
		}
		seen[file] = true
		unique = append(unique, file)
	}
	return unique, duplicates
}

// validateFiles validates files concurrently; results keep the input order.
func validateFiles(files []string, config ValidateConfig) []FileResult {
	mapper := iter.Mapper[string, FileResult]{MaxGoroutines: max(config.MaxConcurrency, 1)}
	return mapper.Map(files, func(path *string) FileResult {
		return ValidateFile(*path, config.Options)
	})
}

func reportResults(results []FileResult, config ValidateConfig, stdout, stderr io.Writer) error {
	if config.JSONOutput {
		if err := writeJSONResults(stdout, results); err != nil {
			return err
		}
	} else {
		writeHumanResults(stderr, results, tty.IsStderrTerminal())
	}
	invalid, _ := summarize(results)
	return validationFailure(invalid)
}

// watchAndValidate validates once, then again for every changed file until
// ctx is done.
func watchAndValidate(ctx context.Context, files []string, config ValidateConfig, stdout, stderr io.Writer) error {
	_ = reportResults(validateFiles(files, config), config, stdout, stderr)
	fmt.Fprintln(stderr, console.FormatInfoMessage(fmt.Sprintf("Watching %d file(s) for changes, press Ctrl+C to stop", len(files))))
	return watchFiles(ctx, files, func(changed string) {
		validateLog.Printf("Change detected in %s", changed)
		_ = reportResults(validateFiles([]string{changed}, config), config, stdout, stderr)
	})
}
