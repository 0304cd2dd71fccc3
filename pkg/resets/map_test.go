package resets

import (
	"testing"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

func fieldOf(v *ir.Value) FieldRef { return FieldRef{Value: v, FieldID: 0} }

func Test_Map_Add_CreatesSingleNetForTwoFreshNodes(t *testing.T) {
	m := ir.NewModule("M", []ir.Port{
		{Name: "a", Direction: ir.Input, Type: reset()},
		{Name: "b", Direction: ir.Input, Type: reset()},
	})

	mp := NewMap()
	mp.Add(fieldOf(m.Argument(0)), reset(), fieldOf(m.Argument(1)), reset(), diag.Loc{})

	if len(mp.Nets()) != 1 {
		t.Fatalf("expected one net, got %d", len(mp.Nets()))
	}
	if len(mp.Nets()[0].Nodes()) != 2 {
		t.Fatalf("expected two nodes in the net, got %d", len(mp.Nets()[0].Nodes()))
	}
}

// Property: transitively connected fields end up in the same net regardless
// of the order the drives are added in.
func Test_Map_Add_TransitiveMerge(t *testing.T) {
	m := ir.NewModule("M", []ir.Port{
		{Name: "a", Direction: ir.Input, Type: reset()},
		{Name: "b", Direction: ir.Input, Type: reset()},
		{Name: "c", Direction: ir.Input, Type: reset()},
	})

	a, b, c := fieldOf(m.Argument(0)), fieldOf(m.Argument(1)), fieldOf(m.Argument(2))

	mp := NewMap()
	mp.Add(a, reset(), b, reset(), diag.Loc{})
	mp.Add(b, reset(), c, reset(), diag.Loc{})

	if len(mp.Nets()) != 1 {
		t.Fatalf("expected a single merged net, got %d", len(mp.Nets()))
	}
	if len(mp.Nets()[0].Nodes()) != 3 {
		t.Fatalf("expected all three fields in one net, got %d", len(mp.Nets()[0].Nodes()))
	}
}

func Test_Map_Add_ReusesAbandonedNetsViaFreeList(t *testing.T) {
	m := ir.NewModule("M", []ir.Port{
		{Name: "a", Direction: ir.Input, Type: reset()},
		{Name: "b", Direction: ir.Input, Type: reset()},
		{Name: "c", Direction: ir.Input, Type: reset()},
		{Name: "d", Direction: ir.Input, Type: reset()},
	})

	a, b, c, d := fieldOf(m.Argument(0)), fieldOf(m.Argument(1)), fieldOf(m.Argument(2)), fieldOf(m.Argument(3))

	mp := NewMap()
	mp.Add(a, reset(), b, reset(), diag.Loc{}) // net 1: {a, b}
	mp.Add(c, reset(), d, reset(), diag.Loc{}) // net 2: {c, d}
	mp.Add(a, reset(), c, reset(), diag.Loc{}) // merges net2 into net1, abandoning one

	if len(mp.Nets()) != 1 {
		t.Fatalf("expected the two nets to merge into one, got %d", len(mp.Nets()))
	}
	if len(mp.Nets()[0].Nodes()) != 4 {
		t.Fatalf("expected all four fields present after merge, got %d", len(mp.Nets()[0].Nodes()))
	}
	if len(mp.freeList) != 1 {
		t.Fatalf("expected the abandoned net on the free list, got %d entries", len(mp.freeList))
	}
	abandoned := mp.freeList[0]

	n := ir.NewModule("N", []ir.Port{
		{Name: "e", Direction: ir.Input, Type: reset()},
		{Name: "f", Direction: ir.Input, Type: reset()},
	})
	mp.Add(fieldOf(n.Argument(0)), reset(), fieldOf(n.Argument(1)), reset(), diag.Loc{}) // fresh net: taken from the free list

	if len(mp.freeList) != 0 || len(mp.Nets()) != 2 || mp.Nets()[1] != abandoned {
		t.Fatalf("expected the new net to reuse the abandoned one from the free list")
	}
}

// Property: GuessRoot breaks ties by insertion order among nodes with equal
// incoming-drive counts.
func Test_Net_GuessRoot_TiesBreakByInsertionOrder(t *testing.T) {
	m := ir.NewModule("M", []ir.Port{
		{Name: "a", Direction: ir.Input, Type: reset()},
		{Name: "b", Direction: ir.Input, Type: reset()},
		{Name: "c", Direction: ir.Input, Type: reset()},
	})

	a, b, c := fieldOf(m.Argument(0)), fieldOf(m.Argument(1)), fieldOf(m.Argument(2))

	mp := NewMap()
	mp.Add(a, reset(), b, reset(), diag.Loc{})
	mp.Add(a, reset(), c, reset(), diag.Loc{})

	// 'b' and 'c' are both never driven into; 'b' was inserted first.
	root := mp.Nets()[0].GuessRoot()
	if root != b {
		t.Fatalf("expected the first-inserted never-driven-into node ('b') to be guessed as root, got %+v", root)
	}
}
