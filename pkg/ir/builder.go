package ir

import "github.com/gofirrtl/resetinfer/pkg/diag"

// Builder provides convenience constructors for operations within a single
// module, wiring up operand-use edges and result values as it goes.
type Builder struct {
	Module *Module
}

// NewBuilder returns a Builder that appends new ops to m's body.
func NewBuilder(m *Module) *Builder { return &Builder{Module: m} }

func newResult(m *Module, typ Type, loc diag.Loc, def Op) *Value {
	return &Value{typ: typ, module: m, def: def, loc: loc}
}

// Connect appends a full connect from src to dest.
func (b *Builder) Connect(dest, src *Value, loc diag.Loc) *ConnectOp {
	op := &ConnectOp{opBase: opBase{loc: loc, module: b.Module}, Dest: dest, Src: src}
	b.Module.Append(op)
	return op
}

// PartialConnect appends a partial connect from src to dest.
func (b *Builder) PartialConnect(dest, src *Value, loc diag.Loc) *PartialConnectOp {
	op := &PartialConnectOp{opBase: opBase{loc: loc, module: b.Module}, Dest: dest, Src: src}
	b.Module.Append(op)
	return op
}

// Wire declares a new wire of the given type.
func (b *Builder) Wire(name string, typ Type, loc diag.Loc) *Value {
	op := &WireOp{opBase: opBase{loc: loc, module: b.Module}, Name: name}
	res := newResult(b.Module, typ, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Node declares a named alias for an existing value.
func (b *Builder) Node(name string, input *Value, loc diag.Loc) *Value {
	op := &NodeOp{opBase: opBase{loc: loc, module: b.Module}, Name: name, Input: input}
	res := newResult(b.Module, input.Type(), loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Reg declares a reset-less register.
func (b *Builder) Reg(name string, typ Type, clock *Value, loc diag.Loc) *Value {
	op := &RegOp{opBase: opBase{loc: loc, module: b.Module}, Name: name, Clock: clock}
	res := newResult(b.Module, typ, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// RegReset declares a register with an explicit reset.
func (b *Builder) RegReset(name string, typ Type, clock, reset, resetValue *Value, loc diag.Loc) *Value {
	op := &RegResetOp{opBase: opBase{loc: loc, module: b.Module}, Name: name, Clock: clock, Reset: reset, ResetValue: resetValue}
	res := newResult(b.Module, typ, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Subfield projects field name out of input.
func (b *Builder) Subfield(input *Value, name string, loc diag.Loc) *Value {
	bundle := input.Type().(BundleType)
	idx := bundle.ElementIndex(name)
	var typ Type = ResetType{}
	if idx.HasValue() {
		typ = bundle.Elements[idx.Unwrap()].Type
	}
	op := &SubfieldOp{opBase: opBase{loc: loc, module: b.Module}, Input: input, FieldName: name}
	res := newResult(b.Module, typ, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Subindex projects a constant index out of input.
func (b *Builder) Subindex(input *Value, index uint, loc diag.Loc) *Value {
	elem := input.Type().(VectorType).Element
	op := &SubindexOp{opBase: opBase{loc: loc, module: b.Module}, Input: input, Index: index}
	res := newResult(b.Module, elem, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Subaccess projects a dynamic index out of input.
func (b *Builder) Subaccess(input, index *Value, loc diag.Loc) *Value {
	elem := input.Type().(VectorType).Element
	op := &SubaccessOp{opBase: opBase{loc: loc, module: b.Module}, Input: input, Index: index}
	res := newResult(b.Module, elem, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Mux builds a mux selecting high when cond holds, else low.
func (b *Builder) Mux(cond, high, low *Value, loc diag.Loc) *Value {
	op := &MuxOp{opBase: opBase{loc: loc, module: b.Module}, Cond: cond, High: high, Low: low}
	res := newResult(b.Module, high.Type(), loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// Constant builds an integer literal of the given type.
func (b *Builder) Constant(typ Type, value int64, loc diag.Loc) *Value {
	op := &ConstantOp{opBase: opBase{loc: loc, module: b.Module}, Value: value}
	res := newResult(b.Module, typ, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// AsClock reinterprets a 1-bit input as a clock.
func (b *Builder) AsClock(input *Value, loc diag.Loc) *Value {
	op := &AsClockOp{opBase: opBase{loc: loc, module: b.Module}, Input: input}
	res := newResult(b.Module, ClockType{}, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// AsAsyncReset reinterprets a 1-bit input as an async reset.
func (b *Builder) AsAsyncReset(input *Value, loc diag.Loc) *Value {
	op := &AsAsyncResetOp{opBase: opBase{loc: loc, module: b.Module}, Input: input}
	res := newResult(b.Module, AsyncResetType{}, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// InvalidValue materializes a don't-care value of the given type.
func (b *Builder) InvalidValue(typ Type, loc diag.Loc) *Value {
	op := &InvalidValueOp{opBase: opBase{loc: loc, module: b.Module}}
	res := newResult(b.Module, typ, loc, op)
	op.results = []*Value{res}
	b.Module.Append(op)
	return res
}

// RebuildInstanceWithPrependedReset constructs a replacement for old with an
// extra resetType-typed result prepended at index 0, preserving every other
// result's type and location and prepending an empty port-annotation slot.
// It does not touch old's existing users; the caller reroutes them to the
// new instance's shifted results and erases old.
func (b *Builder) RebuildInstanceWithPrependedReset(old *InstanceOp, resetType Type) *InstanceOp {
	op := &InstanceOp{opBase: opBase{loc: old.Loc(), module: b.Module}, Name: old.Name, TargetModule: old.TargetModule}

	oldResults := old.Results()
	results := make([]*Value, len(oldResults)+1)
	results[0] = newResult(b.Module, resetType, old.Loc(), op)

	for i, r := range oldResults {
		results[i+1] = newResult(b.Module, r.Type(), r.Loc(), op)
		results[i+1].resIdx = i + 1
	}

	op.results = results

	annos := make([][]Annotation, len(oldResults)+1)
	copy(annos[1:], old.PortAnnotations)
	op.PortAnnotations = annos

	b.Module.Append(op)

	return op
}

// Instance instantiates target, producing one result per port of target
// (in port order), with the given per-instance-name and optional
// per-port-annotation slots.
func (b *Builder) Instance(name string, target *Module, portAnnos [][]Annotation, loc diag.Loc) *InstanceOp {
	op := &InstanceOp{opBase: opBase{loc: loc, module: b.Module}, Name: name, TargetModule: target, PortAnnotations: portAnnos}
	results := make([]*Value, len(target.Ports))
	for i, p := range target.Ports {
		results[i] = newResult(b.Module, p.Type, loc, op)
		results[i].resIdx = i
	}
	op.results = results
	b.Module.Append(op)
	return op
}
