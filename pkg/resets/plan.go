package resets

import (
	"strconv"

	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// Plan is the resolved implementation strategy for a single module's reset
// domain.
type Plan struct {
	// Reset is nil if the module has no reset domain to implement at all.
	Reset *ir.Value

	// IsTop mirrors Domain.IsTop: true if this module is where the reset
	// originates, rather than being threaded in from a parent.
	IsTop bool

	// ExistingValue is set when the module already owns the concrete reset
	// value to use (the top-of-domain case, or an existing async-reset port
	// carrying the desired name): no new port is needed.
	ExistingValue *ir.Value

	// ExistingPort holds the argument index of ExistingValue when it is a
	// port, or -1 otherwise.
	ExistingPort int

	// NewPortName is set when a fresh async-reset input port must be
	// prepended to the module.
	NewPortName string
}

// DeterminePlan resolves a Plan for module given its reset Domain.
func DeterminePlan(module *ir.Module, domain Domain) Plan {
	if domain.Reset == nil {
		return Plan{ExistingPort: -1}
	}

	plan := Plan{Reset: domain.Reset, IsTop: domain.IsTop, ExistingPort: -1}

	if domain.IsTop {
		plan.ExistingValue = domain.Reset
		if domain.Reset.IsPort() {
			plan.ExistingPort = domain.Reset.PortIndex()
		}

		return plan
	}

	desiredName := resetPortName(domain.Reset)

	if idx, ok := module.PortIndex(desiredName); ok {
		if _, isAsync := module.Ports[idx].Type.(ir.AsyncResetType); isAsync {
			plan.ExistingValue = module.Argument(idx)
			plan.ExistingPort = idx
			return plan
		}

		plan.NewPortName = uniquePortName(module, desiredName)
		return plan
	}

	plan.NewPortName = desiredName

	return plan
}

// resetPortName derives the name a new reset port should carry from the
// value it originates from: the port's own name, or the declaring wire/node
// op's name.
func resetPortName(v *ir.Value) string {
	if v.IsPort() {
		return v.Module().Ports[v.PortIndex()].Name
	}

	switch op := v.DefiningOp().(type) {
	case *ir.WireOp:
		return op.Name
	case *ir.NodeOp:
		return op.Name
	default:
		return "reset"
	}
}

// uniquePortName appends "_0", "_1", ... to desired until no existing port
// of module carries that name.
func uniquePortName(module *ir.Module, desired string) string {
	if _, ok := module.PortIndex(desired); !ok {
		return desired
	}

	for i := 0; ; i++ {
		candidate := desired + "_" + strconv.Itoa(i)
		if _, ok := module.PortIndex(candidate); !ok {
			return candidate
		}
	}
}
