// Package constants holds the fixed vocabulary of the pipeline configuration
// format and the CLI.
package constants

// CommandPrefix is how the CLI is invoked in help text.
type CommandPrefix string

// CLIName is the binary name.
const CLIName CommandPrefix = "pipeconf"

// DefaultPipelineFile is validated when no file arguments are given.
const DefaultPipelineFile = "bitbucket-pipelines.yml"

// Step and option time limits, in minutes.
const (
	DefaultMaxTime = 120
	MinMaxTime     = 1
	MaxMaxTime     = 720
)

// Service container memory limits, in megabytes.
const (
	DefaultServiceMemory = 1024
	MinServiceMemory     = 128
	MaxServiceMemory     = 8192
)

// DefaultCloneDepth is the number of commits fetched when clone.depth is absent.
const DefaultCloneDepth = 50

// CloneDepthFull asks for a full clone.
const CloneDepthFull = "full"

// DefaultArch is the cloud runtime architecture when none is given.
const DefaultArch = "x86"

// DefaultPullRequestPattern keys the implicit pull-requests entry.
const DefaultPullRequestPattern = "**"

// StepSizes are the resource tiers a step or the global options may request.
var StepSizes = []string{"1x", "2x", "4x", "8x", "16x"}

// Triggers are the accepted step trigger modes.
var Triggers = []string{"automatic", "manual"}

// OnFailStrategies are the accepted on-fail strategies.
var OnFailStrategies = []string{"ignore", "fail"}

// Arches are the accepted cloud runtime architectures.
var Arches = []string{"arm", "x86"}

// ServiceTypes are the accepted service types.
var ServiceTypes = []string{"docker"}

// BuiltinCaches can be referenced from a step without a definitions.caches entry.
var BuiltinCaches = []string{
	"composer",
	"docker",
	"dotnetcore",
	"go",
	"gradle",
	"ivy2",
	"maven",
	"node",
	"npm",
	"pip",
	"sbt",
	"yarn",
}

// BuiltinServices can be referenced from a step without a definitions.services entry.
var BuiltinServices = []string{"docker"}

// PriorityDocumentFields orders the top level of emitted YAML.
var PriorityDocumentFields = []string{"image", "clone", "options", "definitions", "pipelines"}

// PriorityStepFields orders step keys in emitted YAML.
var PriorityStepFields = []string{
	"name", "image", "size", "max-time", "runs-on", "oidc", "trigger", "deployment",
	"clone", "caches", "services", "runtime", "condition", "fail-fast", "on-fail",
	"script", "after-script", "artifacts",
}

// PriorityPipelineFields orders the pipelines section in emitted YAML.
var PriorityPipelineFields = []string{"default", "branches", "pull-requests", "tags", "custom"}

// Environment variables used as fallbacks for validate flags.
const (
	EnvFailFast        = "PIPECONF_FAIL_FAST"
	EnvCheckReferences = "PIPECONF_CHECK_REFERENCES"
	EnvMaxConcurrency  = "PIPECONF_MAX_CONCURRENCY"
)

// Bounds on the number of files validated at once.
const (
	DefaultMaxConcurrency = 4
	MinMaxConcurrency     = 1
	MaxMaxConcurrency     = 64
)
