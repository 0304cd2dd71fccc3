// Package instancegraph builds a per-module view of instantiation sites
// across a circuit: which module is the design's top level, and which
// instances a given module contains.
package instancegraph

import "github.com/gofirrtl/resetinfer/pkg/ir"

// Record pairs an instance operation with the module it instantiates.
type Record struct {
	Instance *ir.InstanceOp
	Target   *ir.Module
}

// Graph is an index of instantiation sites, keyed by the instantiating
// module and filled in once by Build. It does not assume the instance hierarchy forms a
// tree: a module may be instantiated from more than one place.
type Graph struct {
	circuit     *ir.Circuit
	instancesOf map[*ir.Module][]Record
}

// Build constructs a Graph over circuit by scanning every module body once.
func Build(circuit *ir.Circuit) *Graph {
	g := &Graph{circuit: circuit, instancesOf: make(map[*ir.Module][]Record)}

	for _, m := range circuit.Modules {
		for _, op := range m.Body {
			inst, ok := op.(*ir.InstanceOp)
			if !ok || inst.TargetModule == nil {
				continue
			}
			g.instancesOf[m] = append(g.instancesOf[m], Record{Instance: inst, Target: inst.TargetModule})
		}
	}

	return g
}

// Instances returns the instantiation sites within m, in body order.
func (g *Graph) Instances(m *ir.Module) []Record {
	return g.instancesOf[m]
}

// TopLevelModule returns the circuit's designated top module.
func (g *Graph) TopLevelModule() *ir.Module {
	return g.circuit.TopModule()
}
