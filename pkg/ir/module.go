package ir

import "github.com/gofirrtl/resetinfer/pkg/diag"

// Port describes a single entry in a module's port list.
type Port struct {
	Name      string
	Direction Direction
	Type      Type
}

// Module is a hardware module: a named, ordered port list and a body of
// operations. Ports are exposed both as a Port slice (name/direction/type)
// and as parallel *Value block arguments, mirroring how the host framework
// keeps a module's `FunctionType` and its block arguments in lockstep.
type Module struct {
	Name  string
	Ports []Port
	Args  []*Value
	Body  []Op

	// Annotations attached directly to the module operation.
	Annotations AnnotationSet
	// PortAnnotations holds one AnnotationSet per entry in Ports, kept in
	// lockstep as ports are inserted.
	PortAnnotations []AnnotationSet

	circuit *Circuit
}

// NewModule constructs an empty module with the given ports. Argument
// values are created eagerly, one per port.
func NewModule(name string, ports []Port) *Module {
	m := &Module{Name: name, Ports: append([]Port(nil), ports...)}
	m.Args = make([]*Value, len(ports))
	m.PortAnnotations = make([]AnnotationSet, len(ports))

	for i, p := range ports {
		m.Args[i] = &Value{typ: p.Type, module: m, isPort: true, portName: p.Name, portIdx: i}
	}

	return m
}

// Argument returns the block-argument value for port index i.
func (m *Module) Argument(i int) *Value { return m.Args[i] }

// PortIndex returns the index of the port with the given name, if any.
func (m *Module) PortIndex(name string) (int, bool) {
	for i, p := range m.Ports {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}

// InsertPort inserts a new port at the given index, shifting existing ports
// (and their argument values) up. It rebuilds the port-index bookkeeping on
// every affected argument so the module's signature stays consistent.
func (m *Module) InsertPort(index int, p Port, loc diag.Loc) *Value {
	newArg := &Value{typ: p.Type, module: m, isPort: true, portName: p.Name, portIdx: index, loc: loc}

	ports := make([]Port, 0, len(m.Ports)+1)
	args := make([]*Value, 0, len(m.Args)+1)

	ports = append(ports, m.Ports[:index]...)
	ports = append(ports, p)
	ports = append(ports, m.Ports[index:]...)

	args = append(args, m.Args[:index]...)
	args = append(args, newArg)
	args = append(args, m.Args[index:]...)

	for i, a := range args {
		a.portIdx = i
	}

	annos := make([]AnnotationSet, 0, len(m.PortAnnotations)+1)
	annos = append(annos, m.PortAnnotations[:index]...)
	annos = append(annos, AnnotationSet{})
	annos = append(annos, m.PortAnnotations[index:]...)

	m.Ports = ports
	m.Args = args
	m.PortAnnotations = annos

	return newArg
}

// Signature returns the current ordered list of argument types, i.e. what
// the host framework calls the module's function type.
func (m *Module) Signature() []Type {
	types := make([]Type, len(m.Ports))
	for i, p := range m.Ports {
		types[i] = p.Type
	}
	return types
}

// RebuildSignature refreshes each port's recorded type from its current
// argument value's type. Called whenever an argument's type has changed.
func (m *Module) RebuildSignature() {
	for i, a := range m.Args {
		m.Ports[i].Type = a.Type()
	}
}

// Append adds op to the end of the module body.
func (m *Module) Append(op Op) {
	m.Body = append(m.Body, op)
	for _, operand := range op.Operands() {
		if operand != nil {
			operand.addUser(op)
		}
	}
}

// Erase removes op from the module body. It is a no-op if op is not present.
func (m *Module) Erase(op Op) {
	for i, o := range m.Body {
		if o == op {
			m.Body = append(m.Body[:i], m.Body[i+1:]...)
			return
		}
	}
}

// Walk visits every operation in the module body, in order. fn may erase
// the current op via the module's Erase; erasure is deferred by the caller
// in the passes that need it (see pkg/resets/materialize.go), since mutating
// Body while ranging over a copy of it is otherwise safe here because Walk
// takes a snapshot of Body up front.
func (m *Module) Walk(fn func(Op)) {
	body := append([]Op(nil), m.Body...)
	for _, op := range body {
		fn(op)
	}
}

// Circuit is the top-level container of all modules in a design.
type Circuit struct {
	TopName string
	Modules []*Module
}

// NewCircuit constructs a circuit with the given top module name.
func NewCircuit(topName string) *Circuit {
	return &Circuit{TopName: topName}
}

// AddModule registers m with the circuit.
func (c *Circuit) AddModule(m *Module) {
	m.circuit = c
	c.Modules = append(c.Modules, m)
}

// Module looks up a module by name.
func (c *Circuit) Module(name string) *Module {
	for _, m := range c.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// TopModule returns the circuit's top-level module, or nil if not found.
func (c *Circuit) TopModule() *Module {
	return c.Module(c.TopName)
}

// Walk visits every operation in every module of the circuit.
func (c *Circuit) Walk(fn func(*Module, Op)) {
	for _, m := range c.Modules {
		m.Walk(func(op Op) { fn(m, op) })
	}
}
