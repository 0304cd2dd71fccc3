package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// Materialize implements async-reset insertion: for every module whose
// domain carries a reset, it adds whatever port is needed, rewrites
// registers to use the domain's reset, and rewires instances of
// reset-bearing submodules. It stops at the first module that fails its
// register-check.
func Materialize(circuit *ir.Circuit, domains map[*ir.Module]Domain, plans map[*ir.Module]Plan, rep *diag.Reporter) bool {
	for _, module := range circuit.Modules {
		if !materializeModule(module, domains, plans, rep) {
			return false
		}
	}

	return true
}

func materializeModule(module *ir.Module, domains map[*ir.Module]Domain, plans map[*ir.Module]Plan, rep *diag.Reporter) bool {
	plan, ok := plans[module]
	if !ok || plan.Reset == nil {
		return true
	}

	var actualReset *ir.Value
	if plan.NewPortName != "" {
		actualReset = module.InsertPort(0, ir.Port{
			Name:      plan.NewPortName,
			Direction: ir.Input,
			Type:      ir.AsyncResetType{},
		}, plan.Reset.Loc())
	} else {
		actualReset = plan.ExistingValue
	}

	b := ir.NewBuilder(module)

	var deleteOps []ir.Op
	var deferredConnects [][2]*ir.Value
	failed := false

	module.Walk(func(op ir.Op) {
		if failed {
			return
		}

		switch o := op.(type) {
		case *ir.InstanceOp:
			instReset := rewriteInstance(b, o, domains, plans, &deleteOps)
			if instReset != nil {
				deferredConnects = append(deferredConnects, [2]*ir.Value{instReset, actualReset})
			}

		case *ir.RegOp:
			zb := newZeroBuilder(b, o.Loc())
			zero := zb.zeroValue(o.Results()[0].Type())

			newReg := b.RegReset(o.Name, o.Results()[0].Type(), o.Clock, actualReset, zero, o.Loc())
			newReg.DefiningOp().(*ir.RegResetOp).Annotations = o.Annotations

			rerouteUsers(o.Results()[0], newReg)
			deleteOps = append(deleteOps, o)

		case *ir.RegResetOp:
			if _, isAsync := o.Reset.Type().(ir.AsyncResetType); isAsync {
				// Already async: nothing to fold, just re-assert the
				// framework's well-formedness contract.
				if !o.Verify() {
					rep.Errorf(diag.RegisterCheckFailure, o.Loc(),
						"register %q has a non-constant reset value", o.Name)
					failed = true
				}

				return
			}

			insertResetMux(b, o.Results()[0], o.Reset, o.ResetValue)

			zb := newZeroBuilder(b, o.Loc())
			zero := zb.zeroValue(o.Results()[0].Type())

			o.Reset = actualReset
			o.ResetValue = zero
		}
	})

	if failed {
		return false
	}

	for _, op := range deleteOps {
		module.Erase(op)
	}

	for _, con := range deferredConnects {
		b.Connect(con[0], con[1], con[0].Loc())
	}

	return true
}

// rewriteInstance looks up the instantiated module's domain/plan, adds a
// reset result to the instance if required, and returns the instance-side
// reset value to connect actualReset onto (nil if nothing should be
// connected).
func rewriteInstance(b *ir.Builder, inst *ir.InstanceOp, domains map[*ir.Module]Domain, plans map[*ir.Module]Plan, deleteOps *[]ir.Op) *ir.Value {
	target := inst.TargetModule
	if target == nil {
		return nil
	}

	domain, ok := domains[target]
	if !ok || domain.Reset == nil {
		return nil
	}

	plan := plans[target]

	var instReset *ir.Value

	switch {
	case plan.NewPortName != "":
		newInst := b.RebuildInstanceWithPrependedReset(inst, ir.AsyncResetType{})
		instReset = newInst.Results()[0]

		oldResults := inst.Results()
		newResults := newInst.Results()

		for i, oldResult := range oldResults {
			rerouteUsers(oldResult, newResults[i+1])
		}

		*deleteOps = append(*deleteOps, inst)

	case plan.ExistingPort >= 0:
		instReset = inst.Results()[plan.ExistingPort]
	}

	return instReset
}

// rerouteUsers redirects every user of old to new, mirroring the host
// framework's `replaceAllUsesWith`.
func rerouteUsers(old, new *ir.Value) {
	for _, user := range append([]ir.Op(nil), old.Users()...) {
		user.ReplaceOperand(old, new)
	}
}
