package ir

import "github.com/gofirrtl/resetinfer/pkg/diag"

// OpKind identifies the concrete kind of an operation. The reset pass itself
// dispatches with Go type switches on the concrete op types rather than on
// this value.
type OpKind uint8

// The operation kinds the reset pass needs.
const (
	OpConnect OpKind = iota
	OpPartialConnect
	OpInstance
	OpWire
	OpNode
	OpReg
	OpRegReset
	OpSubfield
	OpSubindex
	OpSubaccess
	OpMux
	OpConstant
	OpAsClock
	OpAsAsyncReset
	OpInvalidValue
)

func (k OpKind) String() string {
	names := [...]string{
		"connect", "partial-connect", "instance", "wire", "node", "reg",
		"regreset", "subfield", "subindex", "subaccess", "mux", "constant",
		"as-clock", "as-async-reset", "invalid-value",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Op is any operation in a module body.
type Op interface {
	Kind() OpKind
	Loc() diag.Loc
	Module() *Module
	// Operands returns the values this op reads.
	Operands() []*Value
	// Results returns the values this op produces.
	Results() []*Value
	// ReplaceOperand rewrites every operand slot equal to old to new,
	// keeping both values' use-lists in sync. This is the generic substitute
	// for the host framework's `Value::replaceAllUsesWith`, used e.g. when
	// an instance op is rebuilt with an extra prepended result.
	ReplaceOperand(old, new *Value)
}

// TypeInferring is implemented by ops whose result type(s) are a pure
// function of their operand types.
type TypeInferring interface {
	Op
	InferReturnTypes() []Type
}

type opBase struct {
	loc         diag.Loc
	module      *Module
	results     []*Value
	Annotations AnnotationSet
}

func (o *opBase) Loc() diag.Loc     { return o.loc }
func (o *opBase) Module() *Module   { return o.module }
func (o *opBase) Results() []*Value { return o.results }

// Annos returns the mutable annotation set attached to this op.
func (o *opBase) Annos() *AnnotationSet { return &o.Annotations }

// Annotated is implemented by every op, giving passes uniform access to
// per-op annotations without a type switch.
type Annotated interface {
	Annos() *AnnotationSet
}

// ---------------------------------------------------------------------------
// ConnectOp / PartialConnectOp
// ---------------------------------------------------------------------------

// ConnectOp is a full (type-exact) connection from Src to Dest.
type ConnectOp struct {
	opBase
	Dest *Value
	Src  *Value
}

func (o *ConnectOp) Kind() OpKind        { return OpConnect }
func (o *ConnectOp) Operands() []*Value { return []*Value{o.Dest, o.Src} }
func (o *ConnectOp) ReplaceOperand(old, new *Value) {
	if o.Dest == old {
		o.Dest = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.Src == old {
		o.Src = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// PartialConnectOp is a partial connection: fields present on only one side
// are simply skipped.
type PartialConnectOp struct {
	opBase
	Dest *Value
	Src  *Value
}

func (o *PartialConnectOp) Kind() OpKind        { return OpPartialConnect }
func (o *PartialConnectOp) Operands() []*Value { return []*Value{o.Dest, o.Src} }
func (o *PartialConnectOp) ReplaceOperand(old, new *Value) {
	if o.Dest == old {
		o.Dest = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.Src == old {
		o.Src = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// ---------------------------------------------------------------------------
// InstanceOp
// ---------------------------------------------------------------------------

// InstanceOp instantiates TargetModule, producing one result value per port
// of the target, in port order.
type InstanceOp struct {
	opBase
	Name           string
	TargetModule   *Module
	PortAnnotations [][]Annotation
}

func (o *InstanceOp) Kind() OpKind             { return OpInstance }
func (o *InstanceOp) Operands() []*Value       { return nil }
func (o *InstanceOp) ReplaceOperand(_, _ *Value) {}

// ---------------------------------------------------------------------------
// WireOp / NodeOp
// ---------------------------------------------------------------------------

// WireOp declares a bidirectional wire.
type WireOp struct {
	opBase
	Name string
}

func (o *WireOp) Kind() OpKind             { return OpWire }
func (o *WireOp) Operands() []*Value       { return nil }
func (o *WireOp) ReplaceOperand(_, _ *Value) {}

// NodeOp declares a named alias for an existing value.
type NodeOp struct {
	opBase
	Name  string
	Input *Value
}

func (o *NodeOp) Kind() OpKind        { return OpNode }
func (o *NodeOp) Operands() []*Value { return []*Value{o.Input} }
func (o *NodeOp) ReplaceOperand(old, new *Value) {
	if o.Input == old {
		o.Input = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// ---------------------------------------------------------------------------
// RegOp / RegResetOp
// ---------------------------------------------------------------------------

// RegOp is a reset-less register clocked by Clock.
type RegOp struct {
	opBase
	Name  string
	Clock *Value
}

func (o *RegOp) Kind() OpKind        { return OpReg }
func (o *RegOp) Operands() []*Value { return []*Value{o.Clock} }
func (o *RegOp) ReplaceOperand(old, new *Value) {
	if o.Clock == old {
		o.Clock = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// RegResetOp is a register with an explicit reset signal and reset value.
type RegResetOp struct {
	opBase
	Name       string
	Clock      *Value
	Reset      *Value
	ResetValue *Value
}

func (o *RegResetOp) Kind() OpKind        { return OpRegReset }
func (o *RegResetOp) Operands() []*Value { return []*Value{o.Clock, o.Reset, o.ResetValue} }
func (o *RegResetOp) ReplaceOperand(old, new *Value) {
	if o.Clock == old {
		o.Clock = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.Reset == old {
		o.Reset = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.ResetValue == old {
		o.ResetValue = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// Verify checks the framework's internal well-formedness contract for a
// register with an async reset. It accepts a reset value that is a module
// port or the result of a constant, invalid-value, as-clock or
// as-async-reset op (the casts whatever their input); a value defined by
// any other op fails.
func (o *RegResetOp) Verify() bool {
	switch o.ResetValue.DefiningOp().(type) {
	case *ConstantOp, nil:
		return true
	case *InvalidValueOp, *AsClockOp, *AsAsyncResetOp:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// SubfieldOp / SubindexOp / SubaccessOp
// ---------------------------------------------------------------------------

// SubfieldOp projects a named field out of a bundle-typed Input.
type SubfieldOp struct {
	opBase
	Input     *Value
	FieldName string
}

func (o *SubfieldOp) Kind() OpKind        { return OpSubfield }
func (o *SubfieldOp) Operands() []*Value { return []*Value{o.Input} }
func (o *SubfieldOp) ReplaceOperand(old, new *Value) {
	if o.Input == old {
		o.Input = new
		old.removeUser(o)
		new.addUser(o)
	}
}
func (o *SubfieldOp) InferReturnTypes() []Type {
	b := o.Input.Type().(BundleType)
	idx := b.ElementIndex(o.FieldName)
	if idx.IsEmpty() {
		return []Type{o.Results()[0].Type()}
	}
	return []Type{b.Elements[idx.Unwrap()].Type}
}

// SubindexOp projects a statically-known element out of a vector-typed
// Input.
type SubindexOp struct {
	opBase
	Input *Value
	Index uint
}

func (o *SubindexOp) Kind() OpKind        { return OpSubindex }
func (o *SubindexOp) Operands() []*Value { return []*Value{o.Input} }
func (o *SubindexOp) ReplaceOperand(old, new *Value) {
	if o.Input == old {
		o.Input = new
		old.removeUser(o)
		new.addUser(o)
	}
}
func (o *SubindexOp) InferReturnTypes() []Type {
	return []Type{o.Input.Type().(VectorType).Element}
}

// SubaccessOp projects a dynamically-indexed element out of a vector-typed
// Input; Index is itself a value (e.g. a UInt) rather than a constant.
type SubaccessOp struct {
	opBase
	Input *Value
	Index *Value
}

func (o *SubaccessOp) Kind() OpKind        { return OpSubaccess }
func (o *SubaccessOp) Operands() []*Value { return []*Value{o.Input, o.Index} }
func (o *SubaccessOp) ReplaceOperand(old, new *Value) {
	if o.Input == old {
		o.Input = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.Index == old {
		o.Index = new
		old.removeUser(o)
		new.addUser(o)
	}
}
func (o *SubaccessOp) InferReturnTypes() []Type {
	return []Type{o.Input.Type().(VectorType).Element}
}

// ---------------------------------------------------------------------------
// MuxOp / ConstantOp / AsClockOp / AsAsyncResetOp / InvalidValueOp
// ---------------------------------------------------------------------------

// MuxOp selects High when Cond is true, else Low.
type MuxOp struct {
	opBase
	Cond *Value
	High *Value
	Low  *Value
}

func (o *MuxOp) Kind() OpKind        { return OpMux }
func (o *MuxOp) Operands() []*Value { return []*Value{o.Cond, o.High, o.Low} }
func (o *MuxOp) ReplaceOperand(old, new *Value) {
	if o.Cond == old {
		o.Cond = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.High == old {
		o.High = new
		old.removeUser(o)
		new.addUser(o)
	}
	if o.Low == old {
		o.Low = new
		old.removeUser(o)
		new.addUser(o)
	}
}
func (o *MuxOp) InferReturnTypes() []Type {
	return []Type{o.High.Type()}
}

// ConstantOp is an integer literal.
type ConstantOp struct {
	opBase
	Value int64
}

func (o *ConstantOp) Kind() OpKind             { return OpConstant }
func (o *ConstantOp) Operands() []*Value       { return nil }
func (o *ConstantOp) ReplaceOperand(_, _ *Value) {}

// AsClockOp reinterprets a 1-bit value as a clock.
type AsClockOp struct {
	opBase
	Input *Value
}

func (o *AsClockOp) Kind() OpKind             { return OpAsClock }
func (o *AsClockOp) Operands() []*Value       { return []*Value{o.Input} }
func (o *AsClockOp) InferReturnTypes() []Type { return []Type{ClockType{}} }
func (o *AsClockOp) ReplaceOperand(old, new *Value) {
	if o.Input == old {
		o.Input = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// AsAsyncResetOp reinterprets a 1-bit value as an async reset.
type AsAsyncResetOp struct {
	opBase
	Input *Value
}

func (o *AsAsyncResetOp) Kind() OpKind             { return OpAsAsyncReset }
func (o *AsAsyncResetOp) Operands() []*Value       { return []*Value{o.Input} }
func (o *AsAsyncResetOp) InferReturnTypes() []Type { return []Type{AsyncResetType{}} }
func (o *AsAsyncResetOp) ReplaceOperand(old, new *Value) {
	if o.Input == old {
		o.Input = new
		old.removeUser(o)
		new.addUser(o)
	}
}

// InvalidValueOp materializes an "invalid" (don't-care) value of a given
// type. It is also used as a wildcard vote during reset type inference and
// to represent zero for analog/reset-typed leaves.
type InvalidValueOp struct {
	opBase
}

func (o *InvalidValueOp) Kind() OpKind             { return OpInvalidValue }
func (o *InvalidValueOp) Operands() []*Value       { return nil }
func (o *InvalidValueOp) ReplaceOperand(_, _ *Value) {}
