package pipeline

import (
	"maps"
	"slices"

	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/nodix/pipeconf/pkg/sliceutil"
)

var referencesLog = logger.New("pipeline:references")

// checkReferences resolves the names each decoded step refers to: caches
// against definitions.caches and the built-in caches, services against
// definitions.services and the built-in docker service, and deployments
// against ValidateOptions.Deployments when that list is set.
func checkReferences(v *validator, doc *Document) {
	caches := append(sortedKeys(doc.Definitions.Caches), constants.BuiltinCaches...)
	services := append(sortedKeys(doc.Definitions.Services), constants.BuiltinServices...)
	referencesLog.Printf("Checking references of %d steps against %d caches, %d services", len(v.steps), len(caches), len(services))

	for _, site := range v.steps {
		if v.halted() {
			return
		}
		step := site.step
		for i, name := range step.Caches {
			if !sliceutil.Contains(caches, name) {
				v.report(UnresolvedReference, site.path.Key("caches").Index(i),
					"unknown cache %q, define it under definitions.caches or use a built-in cache", name)
			}
		}
		for i, name := range step.Services {
			if !sliceutil.Contains(services, name) {
				v.report(UnresolvedReference, site.path.Key("services").Index(i),
					"unknown service %q, define it under definitions.services", name)
			}
		}
		if step.Deployment != nil && len(v.opts.Deployments) > 0 && !sliceutil.Contains(v.opts.Deployments, *step.Deployment) {
			v.report(UnresolvedReference, site.path.Key("deployment"),
				"unknown deployment %q, expected one of %v", *step.Deployment, v.opts.Deployments)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
