package resets

import (
	"github.com/sirupsen/logrus"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/instancegraph"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// Result summarizes a successful pass run, useful to callers (e.g. the CLI)
// that want to report on what the pass actually did without re-walking the
// circuit themselves.
type Result struct {
	Nets    []*Net
	Domains map[*ir.Module]Domain
	Plans   map[*ir.Module]Plan
}

// Run executes the full eight-stage pass over circuit: reset tracing, net
// union, type inference, type rewrite, annotation collection, domain
// construction, implementation planning, and async-reset materialization.
// The pipeline is single-threaded and fails fast: it stops at the first
// stage that reports an error.
//
// It returns the accumulated diagnostics reporter (non-nil errors are
// available via rep.Diagnostics()) and false if any stage failed.
func Run(circuit *ir.Circuit, log *logrus.Logger) (*Result, *diag.Reporter, bool) {
	return RunWithClasses(circuit, DefaultAnnotationClasses(), log)
}

// RunWithClasses is Run parameterized over which annotation classes to
// recognize, so a caller can retarget the pass at differently-named
// full-async-reset annotations.
func RunWithClasses(circuit *ir.Circuit, classes AnnotationClasses, log *logrus.Logger) (*Result, *diag.Reporter, bool) {
	if log == nil {
		log = logrus.New()
	}

	rep := diag.NewReporter()

	log.WithField("phase", "trace").Info("tracing uninferred reset networks")

	m := NewMap()
	Trace(m, circuit)

	log.WithField("phase", "infer").WithField("nets", len(m.Nets())).
		Info("inferring reset network types")

	if !Infer(m, rep) {
		log.WithField("phase", "infer").Warn("reset type inference failed")
		return nil, rep, false
	}

	log.WithField("phase", "rewrite").Info("rewriting inferred reset types onto the IR")
	Rewrite(m)

	log.WithField("phase", "annotations").Info("collecting full-async-reset annotations")

	annos, ok := CollectAnnotationsWithClasses(circuit, classes, rep)
	if !ok {
		log.WithField("phase", "annotations").Warn("annotation collection failed")
		return nil, rep, false
	}

	log.WithField("phase", "domains").Info("building reset domains over the instance hierarchy")

	graph := instancegraph.Build(circuit)

	domains, ok := BuildDomains(graph, annos, rep)
	if !ok {
		log.WithField("phase", "domains").Warn("conflicting reset domains found")
		return nil, rep, false
	}

	log.WithField("phase", "plan").Info("planning per-module reset implementation")

	plans := make(map[*ir.Module]Plan, len(domains))
	for module, domain := range domains {
		plans[module] = DeterminePlan(module, domain)
	}

	log.WithField("phase", "materialize").Info("inserting async resets")

	if !Materialize(circuit, domains, plans, rep) {
		log.WithField("phase", "materialize").Warn("register-check failure during materialization")
		return nil, rep, false
	}

	log.WithField("phase", "done").Info("reset inference complete")

	return &Result{Nets: m.Nets(), Domains: domains, Plans: plans}, rep, true
}
