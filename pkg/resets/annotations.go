package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// The two annotation classes the pass recognizes by default.
const (
	FullAsyncResetClass       = "sifive.enterprise.firrtl.FullAsyncResetAnnotation"
	IgnoreFullAsyncResetClass = "sifive.enterprise.firrtl.IgnoreFullAsyncResetAnnotation"
)

// ModuleReset is what annotation collection found for a single module: either
// an explicit designated reset value, an explicit opt-out, or (if absent from
// the map returned by CollectAnnotations) silent inheritance from the
// instantiation site.
type ModuleReset struct {
	Ignore bool
	Reset  *ir.Value
}

// annoAndLoc pairs a consumed annotation with the location it was found at,
// purely to build the "conflicting annotations" diagnostic's notes.
type annoAndLoc struct {
	class string
	loc   diag.Loc
}

// AnnotationClasses names the two annotation classes the pass recognizes.
// Overridable so a CLI config file can retarget them.
type AnnotationClasses struct {
	FullAsyncReset       string
	IgnoreFullAsyncReset string
}

// DefaultAnnotationClasses returns the two well-known SiFive annotation
// class strings the pass recognizes when no override is configured.
func DefaultAnnotationClasses() AnnotationClasses {
	return AnnotationClasses{FullAsyncReset: FullAsyncResetClass, IgnoreFullAsyncReset: IgnoreFullAsyncResetClass}
}

// CollectAnnotations consumes FullAsyncReset/IgnoreFullAsyncReset annotations
// across every module of circuit, returning the resulting per-module map.
// It stops at the first module that fails.
func CollectAnnotations(circuit *ir.Circuit, rep *diag.Reporter) (map[*ir.Module]ModuleReset, bool) {
	return CollectAnnotationsWithClasses(circuit, DefaultAnnotationClasses(), rep)
}

// CollectAnnotationsWithClasses is CollectAnnotations parameterized over
// which two class strings are recognized.
func CollectAnnotationsWithClasses(circuit *ir.Circuit, classes AnnotationClasses, rep *diag.Reporter) (map[*ir.Module]ModuleReset, bool) {
	result := make(map[*ir.Module]ModuleReset)

	for _, module := range circuit.Modules {
		mr, ok := collectModuleAnnotations(module, classes, rep)
		if !ok {
			return nil, false
		}

		if mr != nil {
			result[module] = *mr
		}
	}

	return result, true
}

func collectModuleAnnotations(module *ir.Module, classes AnnotationClasses, rep *diag.Reporter) (*ModuleReset, bool) {
	var found []annoAndLoc

	ignore := false
	var reset *ir.Value

	// Module-level annotations.
	removed := module.Annotations.RemoveMatching(func(a ir.Annotation) bool {
		return a.IsClass(classes.IgnoreFullAsyncReset) || a.IsClass(classes.FullAsyncReset)
	})

	for _, a := range removed {
		switch {
		case a.IsClass(classes.IgnoreFullAsyncReset):
			ignore = true
			found = append(found, annoAndLoc{a.Class, diag.Loc{}})

		case a.IsClass(classes.FullAsyncReset):
			rep.Errorf(diag.MisplacedAnnotation, diag.Loc{},
				"'%s' cannot target module %q; must target port or wire/node instead",
				classes.FullAsyncReset, module.Name)
			return nil, false
		}
	}

	// Port annotations.
	for i := range module.PortAnnotations {
		portRemoved := module.PortAnnotations[i].RemoveMatching(func(a ir.Annotation) bool {
			return a.IsClass(classes.IgnoreFullAsyncReset) || a.IsClass(classes.FullAsyncReset)
		})

		for _, a := range portRemoved {
			arg := module.Argument(i)

			switch {
			case a.IsClass(classes.FullAsyncReset):
				reset = arg
				found = append(found, annoAndLoc{a.Class, arg.Loc()})

			case a.IsClass(classes.IgnoreFullAsyncReset):
				rep.Errorf(diag.MisplacedAnnotation, arg.Loc(),
					"'%s' cannot target port; must target module instead",
					classes.IgnoreFullAsyncReset)
				return nil, false
			}
		}
	}

	// Wire/node annotations in the module body; any other op carrying one of
	// these two classes is itself an error.
	var bodyFail bool

	module.Walk(func(op ir.Op) {
		if bodyFail {
			return
		}

		annotated, ok := op.(ir.Annotated)
		if !ok {
			return
		}

		set := annotated.Annos()

		_, isWireOrNode := op.(*ir.WireOp)
		if !isWireOrNode {
			_, isWireOrNode = op.(*ir.NodeOp)
		}

		removed := set.RemoveMatching(func(a ir.Annotation) bool {
			return a.IsClass(classes.FullAsyncReset) || a.IsClass(classes.IgnoreFullAsyncReset)
		})

		for _, a := range removed {
			if !isWireOrNode {
				rep.Errorf(diag.MisplacedAnnotation, op.Loc(),
					"reset annotations must target module, port, or wire/node")
				bodyFail = true

				return
			}

			result := op.Results()[0]

			switch {
			case a.IsClass(classes.FullAsyncReset):
				reset = result
				found = append(found, annoAndLoc{a.Class, result.Loc()})

			case a.IsClass(classes.IgnoreFullAsyncReset):
				rep.Errorf(diag.MisplacedAnnotation, op.Loc(),
					"'%s' cannot target wire/node; must target module instead",
					classes.IgnoreFullAsyncReset)
				bodyFail = true
			}
		}
	})

	if bodyFail {
		return nil, false
	}

	if !ignore && reset == nil {
		return nil, true // no annotation: inherit
	}

	if len(found) > 1 {
		d := rep.Errorf(diag.ConflictingAnnotations, found[0].loc,
			"multiple reset annotations on module %q", module.Name)
		for _, f := range found {
			d.Note(f.loc, "conflicting %s", f.class)
		}

		return nil, false
	}

	return &ModuleReset{Ignore: ignore, Reset: reset}, true
}
