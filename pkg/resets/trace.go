package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// Trace walks circuit once and records every drive touching a reset-typed
// value into m.
func Trace(m *Map, circuit *ir.Circuit) {
	t := &tracer{m: m}
	t.traceCircuit(circuit)
}

type tracer struct {
	m *Map
}

func (t *tracer) traceCircuit(circuit *ir.Circuit) {
	circuit.Walk(func(_ *ir.Module, op ir.Op) {
		switch o := op.(type) {
		case *ir.ConnectOp:
			t.tracePair(o.Dest, o.Src, o.Loc())
		case *ir.PartialConnectOp:
			t.tracePair(o.Dest, o.Src, o.Loc())
		case *ir.InstanceOp:
			t.traceInstance(o)
		}
	})
}

// traceInstance links every instance result to the corresponding port of
// the target module: input ports are driven by the instance-side value,
// output ports drive it.
func (t *tracer) traceInstance(inst *ir.InstanceOp) {
	target := inst.TargetModule
	if target == nil {
		return
	}

	for i, result := range inst.Results() {
		dstPort := target.Argument(i)
		srcPort := result

		if target.Ports[i].Direction == ir.Output {
			dstPort, srcPort = srcPort, dstPort
		}

		t.tracePair(dstPort, srcPort, result.Loc())
	}
}

// tracePair analyzes a connection of one (possibly aggregate) value to
// another, first resolving any subfield/subindex/subaccess projection on
// each side, then recursing structurally over the pair's type.
func (t *tracer) tracePair(dst, src *ir.Value, loc diag.Loc) {
	t.traceProjection(dst)
	t.traceProjection(src)
	t.traceTyped(dst.Type(), dst, 0, src.Type(), src, 0, loc)
}

// traceProjection resolves a value produced by a subfield/subindex/subaccess
// op to its root aggregate, accumulating a field-id offset: each projection
// is linked to its input at the field's offset, and the input is resolved in
// turn, so a chain of projections joins the root's field.
func (t *tracer) traceProjection(value *ir.Value) {
	def := value.DefiningOp()
	if def == nil {
		return
	}

	switch op := def.(type) {
	case *ir.SubfieldOp:
		bundle, ok := op.Input.Type().(ir.BundleType)
		if !ok {
			return
		}

		idx := bundle.ElementIndex(op.FieldName)
		if idx.IsEmpty() {
			return
		}

		offset, _, _ := ir.FieldIDOfBundleField(bundle, op.FieldName)
		elemType := bundle.Elements[idx.Unwrap()].Type
		t.traceTyped(value.Type(), value, 0, elemType, op.Input, offset, value.Loc())
		t.traceProjection(op.Input)

	case *ir.SubindexOp:
		vec, ok := op.Input.Type().(ir.VectorType)
		if !ok {
			return
		}

		offset := ir.FieldIDOfVectorElement()
		t.traceTyped(value.Type(), value, 0, vec.Element, op.Input, offset, value.Loc())
		t.traceProjection(op.Input)

	case *ir.SubaccessOp:
		// Dynamic index: collapse to the shared element-0 slot, exactly as
		// a static subindex would. The index operand itself contributes no
		// drive.
		vec, ok := op.Input.Type().(ir.VectorType)
		if !ok {
			return
		}

		offset := ir.FieldIDOfVectorElement()
		t.traceTyped(value.Type(), value, 0, vec.Element, op.Input, offset, value.Loc())
		t.traceProjection(op.Input)
	}
}

// traceTyped structurally recurses over a connected pair's type: bundles
// pair up same-named fields (respecting flip), vectors collapse into
// element 0, and ground types record a drive only if either side is of
// abstract reset type.
func (t *tracer) traceTyped(dstType ir.Type, dst *ir.Value, dstID uint64,
	srcType ir.Type, src *ir.Value, srcID uint64, loc diag.Loc) {
	switch dt := dstType.(type) {
	case ir.BundleType:
		st, ok := srcType.(ir.BundleType)
		if !ok {
			return
		}

		for _, dstElt := range dt.Elements {
			srcIdx := st.ElementIndex(dstElt.Name)
			if srcIdx.IsEmpty() {
				continue // partial-connect semantics: skip fields absent on one side
			}

			srcElt := st.Elements[srcIdx.Unwrap()]

			dOff, _, _ := ir.FieldIDOfBundleField(dt, dstElt.Name)
			sOff, _, _ := ir.FieldIDOfBundleField(st, dstElt.Name)

			if dstElt.Flip {
				t.traceTyped(srcElt.Type, src, srcID+sOff, dstElt.Type, dst, dstID+dOff, loc)
			} else {
				t.traceTyped(dstElt.Type, dst, dstID+dOff, srcElt.Type, src, srcID+sOff, loc)
			}
		}

	case ir.VectorType:
		st, ok := srcType.(ir.VectorType)
		if !ok {
			return
		}

		off := ir.FieldIDOfVectorElement()
		t.traceTyped(dt.Element, dst, dstID+off, st.Element, src, srcID+off, loc)

	default:
		if !dstType.IsGround() {
			return
		}

		// Only the abstract `reset` placeholder marks a leaf as belonging
		// to the reset network; a concrete UInt<1>/AsyncReset on either
		// side still requires the *other* side to be abstract before the
		// pair is worth tracking. Two already-concrete resets connected
		// together carry no inference work.
		_, dstAbstract := dstType.(ir.ResetType)
		_, srcAbstract := srcType.(ir.ResetType)

		if dstAbstract || srcAbstract {
			t.m.Add(FieldRef{dst, dstID}, dstType, FieldRef{src, srcID}, srcType, loc)
		}
	}
}
