// Package resets implements the two-phase reset inference and async-reset
// insertion pass: Phase I infers concrete sync/async reset types across the
// whole design, Phase II builds a tree of reset domains over the instance
// hierarchy and rewrites registers to use them.
package resets

import "github.com/gofirrtl/resetinfer/pkg/ir"

// FieldRef is a pair (value, field-id) addressing a leaf of a (possibly
// aggregate) IR value. Because *ir.Value is pointer-identical within a
// module, FieldRef is directly usable as a map key without a custom hasher.
type FieldRef struct {
	Value   *ir.Value
	FieldID uint64
}

// Type returns the concrete leaf type addressed by this field reference.
func (f FieldRef) Type() ir.Type {
	return ir.LeafAt(f.Value.Type(), f.FieldID)
}
