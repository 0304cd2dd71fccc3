package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
	"github.com/gofirrtl/resetinfer/pkg/util"
)

// zeroBuilder constructs zero values, memoizing one result value per
// distinct type so that a bundle with two identically-typed fields shares a
// single materialized zero. The cache lives as long as the builder;
// materialization creates a fresh builder for every register it rewrites.
type zeroBuilder struct {
	b     *ir.Builder
	loc   diag.Loc
	cache map[string]*ir.Value
}

func newZeroBuilder(b *ir.Builder, loc diag.Loc) *zeroBuilder {
	return &zeroBuilder{b: b, loc: loc, cache: make(map[string]*ir.Value)}
}

// zeroValue returns a value of type t that is all-zero (or, for analog and
// abstract-reset leaves — unreachable once inference has run to completion —
// an invalid-value placeholder), building bundles/vectors out of a wire with
// every field or element connected to the zero value of its own type.
func (z *zeroBuilder) zeroValue(t ir.Type) *ir.Value {
	key := t.String()
	if v, ok := z.cache[key]; ok {
		return v
	}

	var v *ir.Value

	switch tt := t.(type) {
	case ir.ClockType:
		v = z.b.AsClock(z.nullBit(), z.loc)

	case ir.AsyncResetType:
		v = z.b.AsAsyncReset(z.nullBit(), z.loc)

	case ir.UIntType, ir.SIntType:
		v = z.b.Constant(t, 0, z.loc)

	case ir.BundleType:
		wire := z.b.Wire("_zero", t, z.loc)
		for _, field := range tt.Elements {
			zero := z.zeroValue(field.Type)
			acc := z.b.Subfield(wire, field.Name, z.loc)
			z.b.Connect(acc, zero, z.loc)
		}
		v = wire

	case ir.VectorType:
		wire := z.b.Wire("_zero", t, z.loc)
		zero := z.zeroValue(tt.Element)
		for i := uint(0); i < tt.Count; i++ {
			acc := z.b.Subindex(wire, i, z.loc)
			z.b.Connect(acc, zero, z.loc)
		}
		v = wire

	default: // ir.ResetType, ir.AnalogType
		v = z.b.InvalidValue(t, z.loc)
	}

	z.cache[key] = v

	return v
}

// nullBit returns a memoized 1-bit zero constant, the seed value clock and
// async-reset zeros are cast from.
func (z *zeroBuilder) nullBit() *ir.Value {
	return z.zeroValue(ir.UIntType{Width: util.Some(uint(1))})
}
