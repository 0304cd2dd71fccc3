package ir

import "github.com/gofirrtl/resetinfer/pkg/diag"

// Direction is the direction of a module port.
type Direction uint8

// Port directions.
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Value is a single SSA-like value in the IR: either a module port
// (block argument) or the result of an operation. Values are always
// pointer-identical within a module; two Values are the same iff they are
// the same pointer, which lets FieldRef use *Value directly as a map key.
type Value struct {
	typ Type
	loc diag.Loc

	module *Module

	// Set iff this value is a module port.
	isPort   bool
	portName string
	portIdx  int

	// Set iff this value is an op result.
	def    Op
	resIdx int

	users []Op
}

// Type returns this value's current type.
func (v *Value) Type() Type { return v.typ }

// SetType overwrites this value's type. Used by the type-rewrite phase.
func (v *Value) SetType(t Type) { v.typ = t }

// Loc returns the location associated with this value's declaration.
func (v *Value) Loc() diag.Loc { return v.loc }

// Module returns the module this value lives within.
func (v *Value) Module() *Module { return v.module }

// IsPort reports whether this value is a module port (block argument).
func (v *Value) IsPort() bool { return v.isPort }

// PortIndex returns the argument index of this value, valid only if IsPort.
func (v *Value) PortIndex() int { return v.portIdx }

// DefiningOp returns the operation that produced this value, or nil if it
// is a port.
func (v *Value) DefiningOp() Op { return v.def }

// ResultIndex returns the index of this value among its defining op's
// results (0 for single-result ops).
func (v *Value) ResultIndex() int { return v.resIdx }

// Users returns the operations that consume this value as an operand.
func (v *Value) Users() []Op { return v.users }

// addUser records op as a consumer of this value. It does not deduplicate:
// an op reading the value through several operand slots is recorded once per
// slot. Duplicates are harmless since the worklist re-visiting an op twice is
// a no-op once its type has converged.
func (v *Value) addUser(op Op) {
	v.users = append(v.users, op)
}

// removeUser drops one recorded occurrence of op from this value's user
// list. Used by ReplaceOperand to keep Users() accurate after a reroute.
func (v *Value) removeUser(op Op) {
	for i, u := range v.users {
		if u == op {
			v.users = append(v.users[:i], v.users[i+1:]...)
			return
		}
	}
}
