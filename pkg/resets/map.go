package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
	"github.com/gofirrtl/resetinfer/pkg/util"
)

// Map is the union-find state used to group all fields that are transitively
// connected to each other into a single reset net. It owns every Node and
// every live Net.
type Map struct {
	nodes map[FieldRef]*Node
	nets  *util.OrderedSet[*Net]

	// freeList holds abandoned nets available for reuse, avoiding churn as
	// small transient nets get folded into larger ones.
	freeList []*Net
}

// NewMap constructs an empty reset map.
func NewMap() *Map {
	return &Map{nodes: make(map[FieldRef]*Node), nets: util.NewOrderedSet[*Net]()}
}

// Nets returns every live net, in the order each was first created.
func (m *Map) Nets() []*Net {
	return m.nets.Items()
}

// getNode returns the node for field, creating it (and recording its type)
// on first observation.
func (m *Map) getNode(field FieldRef, typ ir.Type) *Node {
	if n, ok := m.nodes[field]; ok {
		return n
	}

	n := &Node{Field: field, Type: typ}
	m.nodes[field] = n

	return n
}

func (m *Map) createNet() *Net {
	if len(m.freeList) > 0 {
		n := m.freeList[len(m.freeList)-1]
		m.freeList = m.freeList[:len(m.freeList)-1]
		m.nets.Insert(n)

		return n
	}

	n := &Net{nodes: util.NewOrderedSet[*Node]()}
	m.nets.Insert(n)

	return n
}

func (m *Map) abandonNet(n *Net) {
	m.nets.Remove(n)
	n.clear()
	m.freeList = append(m.freeList, n)
}

// Add records a drive from src onto dst, merging (or creating) the reset
// nets the two fields belong to.
func (m *Map) Add(dst FieldRef, dstType ir.Type, src FieldRef, srcType ir.Type, loc diag.Loc) {
	dstNode := m.getNode(dst, dstType)
	srcNode := m.getNode(src, srcType)

	var net *Net

	switch {
	case dstNode.net == nil && srcNode.net == nil:
		net = m.createNet()
		dstNode.net = net
		srcNode.net = net
		net.nodes.Insert(dstNode)
		net.nodes.Insert(srcNode)

	case dstNode.net == nil:
		net = srcNode.net
		dstNode.net = net
		net.nodes.Insert(dstNode)

	case srcNode.net == nil:
		net = dstNode.net
		srcNode.net = net
		net.nodes.Insert(srcNode)

	case srcNode.net == dstNode.net:
		net = srcNode.net

	default:
		// Merge, keeping the larger net and splicing the smaller one in
		// (union-by-size), migrating every node in the loser to the winner.
		net = dstNode.net
		other := srcNode.net

		if net.nodes.Len() < other.nodes.Len() {
			net, other = other, net
		}

		for _, node := range other.nodes.Items() {
			node.net = net
			net.nodes.Insert(node)
		}

		net.Drives = append(net.Drives, other.Drives...)
		m.abandonNet(other)
	}

	net.Drives = append(net.Drives, Drive{Dst: dstNode, Src: srcNode, Loc: loc})
}
