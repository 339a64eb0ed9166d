package cli

import (
	"fmt"

	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/envutil"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/spf13/cobra"
)

var flagsLog = logger.New("cli:flags")

// addValidationFlags registers the flags shared by commands that validate.
func addValidationFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("fail-fast", false, "Stop at the first validation error instead of collecting all errors (env: "+constants.EnvFailFast+")")
	cmd.Flags().Bool("check-references", false, "Resolve step caches, services and deployments against definitions (env: "+constants.EnvCheckReferences+")")
	cmd.Flags().StringSlice("deployment", nil, "Known deployment environment; repeat to allow several (implies deployment checks)")
	cmd.Flags().Bool("json-schema", false, "Check the document against the generated JSON Schema before validating")
}

// validationOptionsFromFlags reads the shared flags, falling back to the
// environment for flags that were not given.
func validationOptionsFromFlags(cmd *cobra.Command) ValidationOptions {
	deployments, _ := cmd.Flags().GetStringSlice("deployment")
	jsonSchema, _ := cmd.Flags().GetBool("json-schema")
	opts := ValidationOptions{
		FailFast:        boolFlagOrEnv(cmd, "fail-fast", constants.EnvFailFast),
		CheckReferences: boolFlagOrEnv(cmd, "check-references", constants.EnvCheckReferences),
		Deployments:     deployments,
		JSONSchema:      jsonSchema,
	}
	if len(deployments) > 0 {
		opts.CheckReferences = true
	}
	flagsLog.Printf("Validation options: fail_fast=%t, check_references=%t, deployments=%v, json_schema=%t",
		opts.FailFast, opts.CheckReferences, opts.Deployments, opts.JSONSchema)
	return opts
}

func boolFlagOrEnv(cmd *cobra.Command, name, env string) bool {
	value, _ := cmd.Flags().GetBool(name)
	if cmd.Flags().Changed(name) {
		return value
	}
	return envutil.GetBoolFromEnv(env, value, flagsLog)
}

// maxConcurrencyFromFlags returns the --max-concurrency value when given,
// otherwise the environment fallback or the default.
func maxConcurrencyFromFlags(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("max-concurrency") {
		n, _ := cmd.Flags().GetInt("max-concurrency")
		if n < constants.MinMaxConcurrency || n > constants.MaxMaxConcurrency {
			return 0, fmt.Errorf("--max-concurrency must be between %d and %d, got %d",
				constants.MinMaxConcurrency, constants.MaxMaxConcurrency, n)
		}
		return n, nil
	}
	return envutil.GetIntFromEnv(constants.EnvMaxConcurrency, constants.DefaultMaxConcurrency,
		constants.MinMaxConcurrency, constants.MaxMaxConcurrency, flagsLog), nil
}
