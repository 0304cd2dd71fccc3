package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
	"github.com/gofirrtl/resetinfer/pkg/util"
)

// Kind is the concrete reset type a net has been inferred to carry.
type Kind uint8

// The three reset kinds.
const (
	Uninferred Kind = iota
	Sync
	Async
)

func (k Kind) String() string {
	switch k {
	case Sync:
		return "sync"
	case Async:
		return "async"
	default:
		return "<uninferred>"
	}
}

// Node is per-field metadata created lazily the first time a field is
// observed by tracing.
type Node struct {
	Field FieldRef
	Type  ir.Type
	net   *Net
}

// effectiveKind reports the concrete Kind a node's own leaf type votes for,
// if any (used to pick out the offending drives in a mixed-kind diagnostic).
func (n *Node) effectiveKind() Kind {
	switch n.Type.(type) {
	case ir.AsyncResetType:
		return Async
	case ir.UIntType:
		return Sync
	default:
		return Uninferred
	}
}

// Drive records a single connection contributing to a net.
type Drive struct {
	Dst *Node
	Src *Node
	Loc diag.Loc
}

// Net is the equivalence class of nodes that must share one concrete reset
// type.
type Net struct {
	nodes  *util.OrderedSet[*Node]
	Drives []Drive
	Kind   Kind
}

// Nodes returns the members of this net, in the order they were first added.
func (n *Net) Nodes() []*Node {
	return n.nodes.Items()
}

func (n *Net) clear() {
	n.nodes = util.NewOrderedSet[*Node]()
	n.Drives = nil
	n.Kind = Uninferred
}

// GuessRoot picks a representative field reference to anchor diagnostics on:
// the node with the fewest incoming drives, breaking ties by insertion
// order via a linear scan (matching the original's own tie-break exactly).
func (n *Net) GuessRoot() FieldRef {
	nodes := n.nodes.Items()

	counts := make(map[*Node]int, len(nodes))
	for _, d := range n.Drives {
		counts[d.Dst]++
	}

	var lowest *Node
	lowestCount := 0

	for _, node := range nodes {
		c := counts[node]
		if lowest == nil || c < lowestCount {
			lowest, lowestCount = node, c
		}
	}

	return lowest.Field
}
