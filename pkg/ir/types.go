package ir

import (
	"fmt"

	"github.com/gofirrtl/resetinfer/pkg/util"
)

// Type is the minimal type-system surface the reset pass needs: telling
// ground types from bundles and vectors apart, recognising the abstract
// reset placeholder, and rewriting a leaf reachable via a field-ID.
type Type interface {
	// IsGround reports whether this is a leaf (non-aggregate) type.
	IsGround() bool
	// IsBundle reports whether this is a bundle (struct-like) type.
	IsBundle() bool
	// IsVector reports whether this is a vector (array-like) type.
	IsVector() bool
	// IsResetType reports whether this is a reset type: the abstract `reset`
	// placeholder, `asyncreset`, or a 1-bit uint (the sync reset type).
	IsResetType() bool
	// Equal compares two types structurally.
	Equal(Type) bool
	String() string
}

// UIntType is an unsigned integer of the given (optional) width. A width-1
// UIntType is the concrete "sync reset" type.
type UIntType struct {
	Width util.Option[uint]
}

func (UIntType) IsGround() bool { return true }
func (UIntType) IsBundle() bool { return false }
func (UIntType) IsVector() bool { return false }

// IsResetType reports whether this UInt is the concrete sync-reset type:
// exactly one bit wide. Every other UInt is an ordinary data value.
func (t UIntType) IsResetType() bool { return t.Width.HasValue() && t.Width.Unwrap() == 1 }
func (t UIntType) Equal(o Type) bool {
	u, ok := o.(UIntType)
	return ok && optWidthEqual(t.Width, u.Width)
}
func (t UIntType) String() string {
	if t.Width.HasValue() {
		return fmt.Sprintf("uint<%d>", t.Width.Unwrap())
	}
	return "uint"
}

// SIntType is a signed integer of the given (optional) width.
type SIntType struct {
	Width util.Option[uint]
}

func (SIntType) IsGround() bool    { return true }
func (SIntType) IsBundle() bool    { return false }
func (SIntType) IsVector() bool    { return false }
func (SIntType) IsResetType() bool { return false }
func (t SIntType) Equal(o Type) bool {
	s, ok := o.(SIntType)
	return ok && optWidthEqual(t.Width, s.Width)
}
func (t SIntType) String() string {
	if t.Width.HasValue() {
		return fmt.Sprintf("sint<%d>", t.Width.Unwrap())
	}
	return "sint"
}

// ClockType is the clock signal type.
type ClockType struct{}

func (ClockType) IsGround() bool     { return true }
func (ClockType) IsBundle() bool     { return false }
func (ClockType) IsVector() bool     { return false }
func (ClockType) IsResetType() bool  { return false }
func (ClockType) Equal(o Type) bool  { _, ok := o.(ClockType); return ok }
func (ClockType) String() string     { return "clock" }

// AnalogType is an analog (bidirectional) wire of the given (optional) width.
type AnalogType struct {
	Width util.Option[uint]
}

func (AnalogType) IsGround() bool    { return true }
func (AnalogType) IsBundle() bool    { return false }
func (AnalogType) IsVector() bool    { return false }
func (AnalogType) IsResetType() bool { return false }
func (t AnalogType) Equal(o Type) bool {
	a, ok := o.(AnalogType)
	return ok && optWidthEqual(t.Width, a.Width)
}
func (t AnalogType) String() string {
	if t.Width.HasValue() {
		return fmt.Sprintf("analog<%d>", t.Width.Unwrap())
	}
	return "analog"
}

// ResetType is the abstract reset placeholder awaiting inference: a leaf
// declared as `reset` in source, not yet resolved to sync (UInt<1>) or
// async (AsyncReset).
type ResetType struct{}

func (ResetType) IsGround() bool    { return true }
func (ResetType) IsBundle() bool    { return false }
func (ResetType) IsVector() bool    { return false }
func (ResetType) IsResetType() bool { return true }
func (ResetType) Equal(o Type) bool { _, ok := o.(ResetType); return ok }
func (ResetType) String() string    { return "reset" }

// AsyncResetType is the concrete asynchronous reset type.
type AsyncResetType struct{}

func (AsyncResetType) IsGround() bool    { return true }
func (AsyncResetType) IsBundle() bool    { return false }
func (AsyncResetType) IsVector() bool    { return false }
func (AsyncResetType) IsResetType() bool { return true }
func (AsyncResetType) Equal(o Type) bool { _, ok := o.(AsyncResetType); return ok }
func (AsyncResetType) String() string    { return "asyncreset" }

// BundleElement is a single named field of a BundleType.
type BundleElement struct {
	Name string
	Flip bool
	Type Type
}

// BundleType is a struct-like aggregate of named, possibly-flipped fields.
type BundleType struct {
	Elements []BundleElement
}

func (BundleType) IsGround() bool    { return false }
func (BundleType) IsBundle() bool    { return true }
func (BundleType) IsVector() bool    { return false }
func (BundleType) IsResetType() bool { return false }

func (t BundleType) Equal(o Type) bool {
	b, ok := o.(BundleType)
	if !ok || len(b.Elements) != len(t.Elements) {
		return false
	}

	for i, e := range t.Elements {
		oe := b.Elements[i]
		if e.Name != oe.Name || e.Flip != oe.Flip || !e.Type.Equal(oe.Type) {
			return false
		}
	}

	return true
}

func (t BundleType) String() string {
	s := "{"
	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}
		if e.Flip {
			s += "flip "
		}
		s += e.Name + ": " + e.Type.String()
	}
	return s + "}"
}

// ElementIndex returns the index of the named field, if present.
func (t BundleType) ElementIndex(name string) util.Option[int] {
	for i, e := range t.Elements {
		if e.Name == name {
			return util.Some(i)
		}
	}
	return util.None[int]()
}

// VectorType is an array-like aggregate of a single element type.
type VectorType struct {
	Element Type
	Count   uint
}

func (VectorType) IsGround() bool    { return false }
func (VectorType) IsBundle() bool    { return false }
func (VectorType) IsVector() bool    { return true }
func (VectorType) IsResetType() bool { return false }

func (t VectorType) Equal(o Type) bool {
	v, ok := o.(VectorType)
	return ok && v.Count == t.Count && t.Element.Equal(v.Element)
}

func (t VectorType) String() string {
	return fmt.Sprintf("%s[%d]", t.Element.String(), t.Count)
}

func optWidthEqual(a, b util.Option[uint]) bool {
	if a.HasValue() != b.HasValue() {
		return false
	}
	if !a.HasValue() {
		return true
	}
	return a.Unwrap() == b.Unwrap()
}

// ============================================================================
// Field-ID addressing
//
// Every type is given a flat numbering over its leaves: field-ID 0 always
// addresses the type itself (or, for a ground type, its sole leaf). An
// aggregate's children are numbered depth-first, immediately following their
// parent. Vectors are a special case: since reset inference deliberately
// collapses all elements into one (every element of a vector must share the
// same reset kind, so there is no value in tracking them separately), a
// vector type has exactly one child field-ID space, shared by every element.
// ============================================================================

// Footprint returns the number of field-IDs spanned by a type's subtree,
// i.e. one more than the highest valid field-ID within it.
func Footprint(t Type) uint64 {
	switch v := t.(type) {
	case BundleType:
		total := uint64(1)
		for _, e := range v.Elements {
			total += Footprint(e.Type)
		}
		return total
	case VectorType:
		return 1 + Footprint(v.Element)
	default:
		return 1
	}
}

// bundleElementBase returns the field-ID of the given element, relative to
// the field-ID of the enclosing bundle itself.
func bundleElementBase(b BundleType, index int) uint64 {
	base := uint64(1)
	for i := 0; i < index; i++ {
		base += Footprint(b.Elements[i].Type)
	}
	return base
}

// vectorElementBase returns the field-ID of the (sole, collapsed)
// representative element, relative to the field-ID of the enclosing vector.
func vectorElementBase() uint64 {
	return 1
}

// descendField follows one level of field-ID addressing on an aggregate
// type, returning in a fieldStep the sub-type reached, the fieldID's
// remainder within that sub-type, and (for bundles) the field's flip flag as
// seen from the parent. It panics if called on a ground type (fieldID must
// be 0 there).
type fieldStep struct {
	Type      Type
	Remainder uint64
	Flip      bool
}

func descendField(t Type, fieldID uint64) fieldStep {
	switch v := t.(type) {
	case BundleType:
		for i, e := range v.Elements {
			base := bundleElementBase(v, i)
			fp := Footprint(e.Type)
			if fieldID >= base && fieldID < base+fp {
				return fieldStep{Type: e.Type, Remainder: fieldID - base, Flip: e.Flip}
			}
		}
		panic(fmt.Sprintf("field-id %d out of range for %s", fieldID, v))
	case VectorType:
		base := vectorElementBase()
		fp := Footprint(v.Element)
		if fieldID >= base && fieldID < base+fp {
			return fieldStep{Type: v.Element, Remainder: fieldID - base}
		}
		panic(fmt.Sprintf("field-id %d out of range for %s", fieldID, v))
	default:
		panic(fmt.Sprintf("cannot descend into ground type %s", t))
	}
}

// FieldIDOfBundleField returns the absolute field-ID offset contributed by
// selecting the named field of a bundle, relative to the bundle's own
// field-ID. It also returns the field's flip flag.
func FieldIDOfBundleField(b BundleType, name string) (uint64, bool, bool) {
	idx := b.ElementIndex(name)
	if idx.IsEmpty() {
		return 0, false, false
	}
	i := idx.Unwrap()
	return bundleElementBase(b, i), b.Elements[i].Flip, true
}

// FieldIDOfVectorElement returns the field-ID offset for accessing any
// element of a vector (all elements collapse onto the same offset).
func FieldIDOfVectorElement() uint64 {
	return vectorElementBase()
}

// UpdateType returns a copy of oldType with the leaf reachable via fieldID
// replaced by leaf. It mirrors the original `updateType` helper: ground
// types are replaced wholesale, aggregates are rebuilt with the addressed
// child rewritten.
func UpdateType(oldType Type, fieldID uint64, leaf Type) Type {
	if fieldID == 0 && oldType.IsGround() {
		return leaf
	}

	switch v := oldType.(type) {
	case BundleType:
		step := descendField(v, fieldID)
		elements := make([]BundleElement, len(v.Elements))
		copy(elements, v.Elements)

		for i, e := range v.Elements {
			base := bundleElementBase(v, i)
			fp := Footprint(e.Type)
			if fieldID >= base && fieldID < base+fp {
				elements[i].Type = UpdateType(e.Type, step.Remainder, leaf)
			}
		}

		return BundleType{Elements: elements}
	case VectorType:
		step := descendField(v, fieldID)
		return VectorType{Element: UpdateType(v.Element, step.Remainder, leaf), Count: v.Count}
	default:
		panic(fmt.Sprintf("field-id %d not valid for ground type %s", fieldID, oldType))
	}
}

// LeafAt returns the type of the leaf reachable via fieldID within t.
func LeafAt(t Type, fieldID uint64) Type {
	if fieldID == 0 && t.IsGround() {
		return t
	}

	step := descendField(t, fieldID)

	return LeafAt(step.Type, step.Remainder)
}
