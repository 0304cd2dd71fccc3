package resets

import (
	"testing"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

func Test_DeterminePlan_NoDomain(t *testing.T) {
	m := ir.NewModule("M", nil)

	plan := DeterminePlan(m, Domain{})

	if plan.Reset != nil {
		t.Fatalf("expected no reset in plan, got %v", plan.Reset)
	}
	if plan.ExistingPort != -1 {
		t.Fatalf("expected ExistingPort -1, got %d", plan.ExistingPort)
	}
}

func Test_DeterminePlan_TopWithPortReset(t *testing.T) {
	m := ir.NewModule("M", []ir.Port{
		{Name: "rst", Direction: ir.Input, Type: ir.AsyncResetType{}},
	})

	plan := DeterminePlan(m, Domain{Reset: m.Argument(0), IsTop: true})

	if plan.ExistingValue != m.Argument(0) {
		t.Fatalf("expected ExistingValue to be the port itself")
	}
	if plan.ExistingPort != 0 {
		t.Fatalf("expected ExistingPort 0, got %d", plan.ExistingPort)
	}
	if plan.NewPortName != "" {
		t.Fatalf("top-of-domain module should never need a new port")
	}
}

func Test_DeterminePlan_InheritedNeedsNewPort(t *testing.T) {
	parent := ir.NewModule("Parent", []ir.Port{
		{Name: "globalReset", Direction: ir.Input, Type: ir.AsyncResetType{}},
	})
	child := ir.NewModule("Child", nil)

	plan := DeterminePlan(child, Domain{Reset: parent.Argument(0), IsTop: false})

	if plan.IsTop {
		t.Fatalf("inherited domain must not be IsTop")
	}
	if plan.NewPortName != "globalReset" {
		t.Fatalf("expected new port named after the source value, got %q", plan.NewPortName)
	}
}

func Test_DeterminePlan_InheritedReusesExistingAsyncPort(t *testing.T) {
	parent := ir.NewModule("Parent", []ir.Port{
		{Name: "globalReset", Direction: ir.Input, Type: ir.AsyncResetType{}},
	})
	child := ir.NewModule("Child", []ir.Port{
		{Name: "globalReset", Direction: ir.Input, Type: ir.AsyncResetType{}},
	})

	plan := DeterminePlan(child, Domain{Reset: parent.Argument(0), IsTop: false})

	if plan.NewPortName != "" {
		t.Fatalf("expected no new port, an asyncreset port of the same name already exists")
	}
	if plan.ExistingPort != 0 {
		t.Fatalf("expected ExistingPort 0, got %d", plan.ExistingPort)
	}
}

func Test_DeterminePlan_NameCollisionWithNonResetPort(t *testing.T) {
	parent := ir.NewModule("Parent", []ir.Port{
		{Name: "globalReset", Direction: ir.Input, Type: ir.AsyncResetType{}},
	})
	child := ir.NewModule("Child", []ir.Port{
		{Name: "globalReset", Direction: ir.Input, Type: ir.UIntType{}},
	})

	plan := DeterminePlan(child, Domain{Reset: parent.Argument(0), IsTop: false})

	if plan.NewPortName != "globalReset_0" {
		t.Fatalf("expected disambiguated port name, got %q", plan.NewPortName)
	}
}

func Test_ResetPortName_FromWire(t *testing.T) {
	m := ir.NewModule("M", nil)
	b := ir.NewBuilder(m)
	w := b.Wire("myReset", ir.AsyncResetType{}, diag.Loc{})

	if got := resetPortName(w); got != "myReset" {
		t.Fatalf("expected 'myReset', got %q", got)
	}
}
