package resets

import (
	"testing"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

func Test_ZeroValue_UInt_IsConstantZero(t *testing.T) {
	m := ir.NewModule("M", nil)
	b := ir.NewBuilder(m)
	zb := newZeroBuilder(b, diag.Loc{})

	v := zb.zeroValue(u8())

	c, ok := v.DefiningOp().(*ir.ConstantOp)
	if !ok {
		t.Fatalf("expected a ConstantOp, got %T", v.DefiningOp())
	}
	if c.Value != 0 {
		t.Fatalf("expected value 0, got %d", c.Value)
	}
}

func Test_ZeroValue_MemoizesPerType(t *testing.T) {
	m := ir.NewModule("M", nil)
	b := ir.NewBuilder(m)
	zb := newZeroBuilder(b, diag.Loc{})

	first := zb.zeroValue(u8())
	second := zb.zeroValue(u8())

	if first != second {
		t.Fatalf("expected the same zero value to be reused for identical types")
	}
}

func Test_ZeroValue_AsyncReset_CastFromNullBit(t *testing.T) {
	m := ir.NewModule("M", nil)
	b := ir.NewBuilder(m)
	zb := newZeroBuilder(b, diag.Loc{})

	v := zb.zeroValue(ir.AsyncResetType{})

	asAsync, ok := v.DefiningOp().(*ir.AsAsyncResetOp)
	if !ok {
		t.Fatalf("expected an AsAsyncResetOp, got %T", v.DefiningOp())
	}
	if _, ok := asAsync.Input.DefiningOp().(*ir.ConstantOp); !ok {
		t.Fatalf("expected the cast's input to be a constant null bit")
	}
}

func Test_ZeroValue_Bundle_ConnectsEveryField(t *testing.T) {
	bundle := ir.BundleType{Elements: []ir.BundleElement{
		{Name: "a", Type: u8()},
		{Name: "b", Type: u8()},
	}}

	m := ir.NewModule("M", nil)
	b := ir.NewBuilder(m)
	zb := newZeroBuilder(b, diag.Loc{})

	v := zb.zeroValue(bundle)

	wireOp, ok := v.DefiningOp().(*ir.WireOp)
	if !ok {
		t.Fatalf("expected a WireOp, got %T", v.DefiningOp())
	}

	connects := 0
	for _, op := range m.Body {
		if c, ok := op.(*ir.ConnectOp); ok {
			if sf, ok := c.Dest.DefiningOp().(*ir.SubfieldOp); ok && sf.Input == v {
				connects++
			}
		}
	}
	if connects != 2 {
		t.Fatalf("expected both bundle fields connected to a zero, got %d", connects)
	}
	_ = wireOp
}

func Test_ZeroValue_Vector_ConnectsEveryElement(t *testing.T) {
	vec := ir.VectorType{Element: u8(), Count: 3}

	m := ir.NewModule("M", nil)
	b := ir.NewBuilder(m)
	zb := newZeroBuilder(b, diag.Loc{})

	v := zb.zeroValue(vec)

	connects := 0
	for _, op := range m.Body {
		if c, ok := op.(*ir.ConnectOp); ok {
			if si, ok := c.Dest.DefiningOp().(*ir.SubindexOp); ok && si.Input == v {
				connects++
			}
		}
	}
	if connects != 3 {
		t.Fatalf("expected all three vector elements connected to a zero, got %d", connects)
	}
}
