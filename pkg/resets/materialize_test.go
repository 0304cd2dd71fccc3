package resets

import (
	"testing"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

func findRegReset(t *testing.T, m *ir.Module, name string) *ir.RegResetOp {
	t.Helper()
	for _, op := range m.Body {
		if rr, ok := op.(*ir.RegResetOp); ok && rr.Name == name {
			return rr
		}
	}
	t.Fatalf("no RegResetOp named %q found", name)
	return nil
}

// A plain RegOp under a module with a reset domain must come out of
// Materialize as a RegResetOp wired to the domain's reset and a zero reset
// value, with every prior user of the register rerouted onto the new result.
func Test_Materialize_RegClosure_ConvertsPlainRegToAsyncRegReset(t *testing.T) {
	m := ir.NewModule("Top", []ir.Port{
		clockPort("clock"), inPort("arst", ir.AsyncResetType{}), inPort("d", u8()), outPort("q", u8()),
	})
	b := ir.NewBuilder(m)
	r := b.Reg("r", u8(), m.Argument(0), diag.Loc{})
	b.Connect(r, m.Argument(2), diag.Loc{})
	b.Connect(m.Argument(3), r, diag.Loc{})

	domains := map[*ir.Module]Domain{m: {Reset: m.Argument(1), IsTop: true}}
	plans := map[*ir.Module]Plan{m: DeterminePlan(m, domains[m])}

	rep := diag.NewReporter()
	if !materializeModule(m, domains, plans, rep) {
		t.Fatalf("materialize failed: %v", rep.Diagnostics())
	}

	for _, op := range m.Body {
		if _, ok := op.(*ir.RegOp); ok {
			t.Fatalf("plain RegOp should have been erased, found %+v", op)
		}
	}

	rr := findRegReset(t, m, "r")
	if rr.Clock != m.Argument(0) {
		t.Fatalf("expected clock preserved")
	}
	if rr.Reset != m.Argument(1) {
		t.Fatalf("expected reset rewired to the domain's async reset port")
	}
	c, ok := rr.ResetValue.DefiningOp().(*ir.ConstantOp)
	if !ok || c.Value != 0 {
		t.Fatalf("expected a zero reset value, got %+v", rr.ResetValue.DefiningOp())
	}

	newResult := rr.Results()[0]
	drivesD, readsQ := false, false
	for _, op := range m.Body {
		if c, ok := op.(*ir.ConnectOp); ok {
			if c.Dest == newResult && c.Src == m.Argument(2) {
				drivesD = true
			}
			if c.Dest == m.Argument(3) && c.Src == newResult {
				readsQ = true
			}
		}
	}
	if !drivesD || !readsQ {
		t.Fatalf("expected both prior users of the register rerouted to the new result")
	}
}

// A register that already has an explicit (sync) reset gets its reset
// folded into a mux on every connect driving it, and is rewired onto the
// domain's async reset.
func Test_Materialize_SyncFold_FoldsExistingRegResetIntoMux(t *testing.T) {
	m := ir.NewModule("Child", []ir.Port{
		clockPort("clock"), inPort("arst", ir.AsyncResetType{}), inPort("d", u8()), outPort("q", u8()),
	})
	b := ir.NewBuilder(m)
	syncRst := b.Wire("innerRst", u1(), diag.Loc{})
	resetVal := b.Constant(u8(), 5, diag.Loc{})
	r := b.RegReset("r", u8(), m.Argument(0), syncRst, resetVal, diag.Loc{})
	b.Connect(r, m.Argument(2), diag.Loc{}) // r <= d
	b.Connect(m.Argument(3), r, diag.Loc{}) // q <= r

	domains := map[*ir.Module]Domain{m: {Reset: m.Argument(1), IsTop: true}}
	plans := map[*ir.Module]Plan{m: DeterminePlan(m, domains[m])}

	rep := diag.NewReporter()
	if !materializeModule(m, domains, plans, rep) {
		t.Fatalf("materialize failed: %v", rep.Diagnostics())
	}

	rr := findRegReset(t, m, "r")
	if rr.Reset != m.Argument(1) {
		t.Fatalf("expected the register's reset rewired to the domain's async reset")
	}
	if _, isConst := rr.ResetValue.DefiningOp().(*ir.ConstantOp); !isConst || rr.ResetValue == resetVal {
		t.Fatalf("expected a fresh zero reset value, not the original sync reset value")
	}

	var drive *ir.ConnectOp
	for _, op := range m.Body {
		if c, ok := op.(*ir.ConnectOp); ok && c.Dest == rr.Results()[0] {
			drive = c
		}
	}
	if drive == nil {
		t.Fatalf("expected the connect driving the register to survive")
	}

	mux, ok := drive.Src.DefiningOp().(*ir.MuxOp)
	if !ok {
		t.Fatalf("expected the register's drive to be folded into a mux, got %T", drive.Src.DefiningOp())
	}
	if mux.Cond != syncRst {
		t.Fatalf("expected the mux condition to be the original sync reset")
	}
	if mux.High != resetVal {
		t.Fatalf("expected the mux's true branch to be the original reset value")
	}
	if mux.Low != m.Argument(2) {
		t.Fatalf("expected the mux's false branch to be the register's original driver")
	}
}

// A field of an aggregate register that is never actually driven produces no
// mux, and the reset-value projection built for it is left dangling and
// erased rather than kept unused.
func Test_Materialize_SyncFold_ErasesDeadResetProjections(t *testing.T) {
	bundleT := ir.BundleType{Elements: []ir.BundleElement{
		{Name: "a", Type: u8()},
		{Name: "b", Type: u8()},
	}}

	m := ir.NewModule("Child", []ir.Port{
		clockPort("clock"), inPort("arst", ir.AsyncResetType{}), inPort("ina", u8()), outPort("outb", u8()),
	})
	b := ir.NewBuilder(m)
	syncRst := b.Wire("innerRst", u1(), diag.Loc{})
	origResetVal := b.Wire("origResetVal", bundleT, diag.Loc{})
	r := b.RegReset("r", bundleT, m.Argument(0), syncRst, origResetVal, diag.Loc{})
	subA := b.Subfield(r, "a", diag.Loc{})
	subB := b.Subfield(r, "b", diag.Loc{})
	b.Connect(subA, m.Argument(2), diag.Loc{}) // r.a <= ina
	b.Connect(m.Argument(3), subB, diag.Loc{}) // outb <= r.b (never driven)

	domains := map[*ir.Module]Domain{m: {Reset: m.Argument(1), IsTop: true}}
	plans := map[*ir.Module]Plan{m: DeterminePlan(m, domains[m])}

	rep := diag.NewReporter()
	if !materializeModule(m, domains, plans, rep) {
		t.Fatalf("materialize failed: %v", rep.Diagnostics())
	}

	var drive *ir.ConnectOp
	for _, op := range m.Body {
		if c, ok := op.(*ir.ConnectOp); ok && c.Dest == subA {
			drive = c
		}
	}
	if drive == nil {
		t.Fatalf("expected the connect driving field 'a' to survive")
	}
	mux, ok := drive.Src.DefiningOp().(*ir.MuxOp)
	if !ok {
		t.Fatalf("expected field 'a' to be folded into a mux, got %T", drive.Src.DefiningOp())
	}
	sub, ok := mux.High.DefiningOp().(*ir.SubfieldOp)
	if !ok || sub.Input != origResetVal || sub.FieldName != "a" {
		t.Fatalf("expected the mux's true branch to project field 'a' out of the original reset value")
	}

	for _, op := range m.Body {
		if sf, ok := op.(*ir.SubfieldOp); ok && sf.Input == origResetVal && sf.FieldName == "b" {
			t.Fatalf("expected the dead projection of field 'b' off the reset value to be erased")
		}
	}
}
