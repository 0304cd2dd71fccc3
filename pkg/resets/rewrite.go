package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/ir"
	"github.com/gofirrtl/resetinfer/pkg/util"
)

// Rewrite pushes every net's inferred Kind out onto the IR: it retypes each
// "root" value in the net (ports, wires, registers, instance results,
// invalid-value placeholders — the only values whose type isn't purely a
// function of their operands) to the concrete reset type, then propagates
// that change through every TypeInferring consumer via a worklist, finally
// rebuilding the signature of any module whose port types changed.
func Rewrite(m *Map) {
	wl := newOpWorklist()
	modules := map[*ir.Module]bool{}

	for _, net := range m.Nets() {
		resetType := concreteType(net.Kind)

		for _, node := range net.Nodes() {
			value := node.Field.Value

			if !isRewritableRoot(value) {
				continue
			}

			if !updateField(node.Field, resetType) {
				continue
			}

			for _, user := range value.Users() {
				wl.push(user)
			}

			if value.IsPort() {
				modules[value.Module()] = true
			}
		}
	}

	for {
		op, ok := wl.pop()
		if !ok {
			break
		}

		infer, ok := op.(ir.TypeInferring)
		if !ok {
			continue
		}

		newTypes := infer.InferReturnTypes()
		results := op.Results()

		for i, newType := range newTypes {
			if i >= len(results) {
				break
			}

			result := results[i]
			if result.Type().Equal(newType) {
				continue
			}

			result.SetType(newType)

			for _, user := range result.Users() {
				wl.push(user)
			}
		}
	}

	for module := range modules {
		module.RebuildSignature()
	}
}

func concreteType(k Kind) ir.Type {
	if k == Async {
		return ir.AsyncResetType{}
	}

	return ir.UIntType{Width: util.Some(uint(1))}
}

// isRewritableRoot mirrors the original's "cannot be inferred from operands"
// test: block arguments (ports) and the results of Wire/Reg/RegReset/
// Instance/InvalidValue ops carry their own type rather than deriving it
// from an operand, so only these are ever retyped directly.
func isRewritableRoot(v *ir.Value) bool {
	if v.IsPort() {
		return true
	}

	switch v.DefiningOp().(type) {
	case *ir.WireOp, *ir.RegOp, *ir.RegResetOp, *ir.InstanceOp, *ir.InvalidValueOp:
		return true
	default:
		return false
	}
}

// updateField rewrites the leaf addressed by field to leaf, returning
// whether the value's type actually changed.
func updateField(field FieldRef, leaf ir.Type) bool {
	oldType := field.Value.Type()
	newType := ir.UpdateType(oldType, field.FieldID, leaf)

	if oldType.Equal(newType) {
		return false
	}

	field.Value.SetType(newType)

	return true
}

// opWorklist is a LIFO queue of operations with membership dedup, mirroring
// MLIR's SmallSetVector-based worklist used by the original pass's type
// propagation loop.
type opWorklist struct {
	items []ir.Op
	seen  map[ir.Op]bool
}

func newOpWorklist() *opWorklist {
	return &opWorklist{seen: make(map[ir.Op]bool)}
}

func (w *opWorklist) push(op ir.Op) {
	if op == nil || w.seen[op] {
		return
	}

	w.seen[op] = true
	w.items = append(w.items, op)
}

func (w *opWorklist) pop() (ir.Op, bool) {
	if len(w.items) == 0 {
		return nil, false
	}

	op := w.items[len(w.items)-1]
	w.items = w.items[:len(w.items)-1]
	delete(w.seen, op)

	return op, true
}
