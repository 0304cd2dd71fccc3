package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
	"github.com/gofirrtl/resetinfer/pkg/util"
)

// The JSON circuit format this CLI reads: a small, hand-rolled wire encoding
// of the pkg/ir model. It is deliberately close to FIRRTL's own textual
// shape so a circuit fixture reads naturally, but it is not itself a
// FIRRTL-syntax parser.

type jsonCircuit struct {
	Top     string        `json:"top"`
	Modules []jsonModule  `json:"modules"`
}

type jsonModule struct {
	Name            string          `json:"name"`
	Ports           []jsonPort      `json:"ports"`
	Annotations     []string        `json:"annotations,omitempty"`
	PortAnnotations [][]string      `json:"portAnnotations,omitempty"`
	Body            []jsonOp        `json:"body"`
}

type jsonPort struct {
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Type      jsonType `json:"type"`
}

type jsonType struct {
	Kind     string      `json:"kind"`
	Width    *uint       `json:"width,omitempty"`
	Elements []jsonField `json:"elements,omitempty"`
	Element  *jsonType   `json:"element,omitempty"`
	Count    uint        `json:"count,omitempty"`
}

type jsonField struct {
	Name string   `json:"name"`
	Flip bool     `json:"flip,omitempty"`
	Type jsonType `json:"type"`
}

// jsonOp is a tagged union over every operation kind pkg/ir supports. Only
// the fields relevant to Op are populated for any given Kind.
type jsonOp struct {
	Op   string `json:"op"`
	Loc  string `json:"loc,omitempty"`

	// Result naming: every op that produces exactly one value is referenced
	// by later ops via this name (defaults to the op's declaration Name for
	// wire/node/reg/regreset).
	Result string `json:"result,omitempty"`

	Name            string     `json:"name,omitempty"`
	Type            *jsonType  `json:"type,omitempty"`
	Dest            string     `json:"dest,omitempty"`
	Src             string     `json:"src,omitempty"`
	Input           string     `json:"input,omitempty"`
	Field           string     `json:"field,omitempty"`
	Index           *uint      `json:"index,omitempty"`
	IndexValue      string     `json:"indexValue,omitempty"`
	Clock           string     `json:"clock,omitempty"`
	Reset           string     `json:"reset,omitempty"`
	ResetValue      string     `json:"resetValue,omitempty"`
	Cond            string     `json:"cond,omitempty"`
	High            string     `json:"high,omitempty"`
	Low             string     `json:"low,omitempty"`
	Value           int64      `json:"value,omitempty"`
	Target          string     `json:"target,omitempty"`
	PortAnnotations [][]string `json:"portAnnotations,omitempty"`
	Annotations     []string   `json:"annotations,omitempty"`
}

func parseLoc(s string) diag.Loc {
	if s == "" {
		return diag.Loc{}
	}

	var file string
	var line, col int
	if _, err := fmt.Sscanf(s, "%[^:]:%d:%d", &file, &line, &col); err == nil {
		return diag.Loc{File: file, Line: line, Column: col}
	}

	return diag.Loc{File: s}
}

func toType(t jsonType) (ir.Type, error) {
	switch t.Kind {
	case "uint":
		return ir.UIntType{Width: widthOption(t.Width)}, nil
	case "sint":
		return ir.SIntType{Width: widthOption(t.Width)}, nil
	case "clock":
		return ir.ClockType{}, nil
	case "analog":
		return ir.AnalogType{Width: widthOption(t.Width)}, nil
	case "reset":
		return ir.ResetType{}, nil
	case "asyncreset":
		return ir.AsyncResetType{}, nil
	case "bundle":
		elems := make([]ir.BundleElement, len(t.Elements))
		for i, e := range t.Elements {
			et, err := toType(e.Type)
			if err != nil {
				return nil, err
			}
			elems[i] = ir.BundleElement{Name: e.Name, Flip: e.Flip, Type: et}
		}
		return ir.BundleType{Elements: elems}, nil
	case "vector":
		if t.Element == nil {
			return nil, fmt.Errorf("vector type missing \"element\"")
		}
		et, err := toType(*t.Element)
		if err != nil {
			return nil, err
		}
		return ir.VectorType{Element: et, Count: t.Count}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", t.Kind)
	}
}

func widthOption(w *uint) util.Option[uint] {
	if w == nil {
		return util.None[uint]()
	}
	return util.Some(*w)
}

func toAnnotations(classes []string) ir.AnnotationSet {
	set := ir.AnnotationSet{}
	for _, c := range classes {
		set.Annotations = append(set.Annotations, ir.Annotation{Class: c})
	}
	return set
}

// ParseCircuit decodes raw JSON bytes into a *ir.Circuit.
func ParseCircuit(raw []byte) (*ir.Circuit, error) {
	var jc jsonCircuit
	if err := json.Unmarshal(raw, &jc); err != nil {
		return nil, fmt.Errorf("malformed circuit JSON: %w", err)
	}

	circuit := ir.NewCircuit(jc.Top)

	// Pass 1: create every module (with its ports) so instances anywhere in
	// the circuit can resolve forward references to a target module.
	for _, jm := range jc.Modules {
		ports := make([]ir.Port, len(jm.Ports))
		for i, jp := range jm.Ports {
			pt, err := toType(jp.Type)
			if err != nil {
				return nil, fmt.Errorf("module %q port %q: %w", jm.Name, jp.Name, err)
			}

			dir := ir.Input
			if jp.Direction == "output" {
				dir = ir.Output
			}

			ports[i] = ir.Port{Name: jp.Name, Direction: dir, Type: pt}
		}

		module := ir.NewModule(jm.Name, ports)
		module.Annotations = toAnnotations(jm.Annotations)

		for i := range module.PortAnnotations {
			if i < len(jm.PortAnnotations) {
				module.PortAnnotations[i] = toAnnotations(jm.PortAnnotations[i])
			}
		}

		circuit.AddModule(module)
	}

	// Pass 2: build each module's body now that every target is resolvable.
	for _, jm := range jc.Modules {
		module := circuit.Module(jm.Name)
		if err := buildBody(circuit, module, jm.Body); err != nil {
			return nil, fmt.Errorf("module %q: %w", jm.Name, err)
		}
	}

	return circuit, nil
}

func buildBody(circuit *ir.Circuit, module *ir.Module, ops []jsonOp) error {
	b := ir.NewBuilder(module)
	values := make(map[string]*ir.Value, len(module.Args))

	for i, p := range module.Ports {
		values[p.Name] = module.Argument(i)
	}

	resolve := func(name string) (*ir.Value, error) {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("reference to undefined value %q", name)
		}
		return v, nil
	}

	for _, jop := range ops {
		loc := parseLoc(jop.Loc)

		switch jop.Op {
		case "connect", "partial-connect":
			dest, err := resolve(jop.Dest)
			if err != nil {
				return err
			}
			src, err := resolve(jop.Src)
			if err != nil {
				return err
			}
			if jop.Op == "connect" {
				b.Connect(dest, src, loc)
			} else {
				b.PartialConnect(dest, src, loc)
			}

		case "wire":
			t, err := toType(*jop.Type)
			if err != nil {
				return err
			}
			v := b.Wire(jop.Name, t, loc)
			v.DefiningOp().(*ir.WireOp).Annotations = toAnnotations(jop.Annotations)
			values[bindName(jop, jop.Name)] = v

		case "node":
			input, err := resolve(jop.Input)
			if err != nil {
				return err
			}
			v := b.Node(jop.Name, input, loc)
			v.DefiningOp().(*ir.NodeOp).Annotations = toAnnotations(jop.Annotations)
			values[bindName(jop, jop.Name)] = v

		case "reg":
			t, err := toType(*jop.Type)
			if err != nil {
				return err
			}
			clock, err := resolve(jop.Clock)
			if err != nil {
				return err
			}
			v := b.Reg(jop.Name, t, clock, loc)
			v.DefiningOp().(*ir.RegOp).Annotations = toAnnotations(jop.Annotations)
			values[bindName(jop, jop.Name)] = v

		case "regreset":
			t, err := toType(*jop.Type)
			if err != nil {
				return err
			}
			clock, err := resolve(jop.Clock)
			if err != nil {
				return err
			}
			reset, err := resolve(jop.Reset)
			if err != nil {
				return err
			}
			resetValue, err := resolve(jop.ResetValue)
			if err != nil {
				return err
			}
			v := b.RegReset(jop.Name, t, clock, reset, resetValue, loc)
			v.DefiningOp().(*ir.RegResetOp).Annotations = toAnnotations(jop.Annotations)
			values[bindName(jop, jop.Name)] = v

		case "subfield":
			input, err := resolve(jop.Input)
			if err != nil {
				return err
			}
			v := b.Subfield(input, jop.Field, loc)
			values[bindName(jop, jop.Result)] = v

		case "subindex":
			input, err := resolve(jop.Input)
			if err != nil {
				return err
			}
			if jop.Index == nil {
				return fmt.Errorf("subindex missing \"index\"")
			}
			v := b.Subindex(input, *jop.Index, loc)
			values[bindName(jop, jop.Result)] = v

		case "subaccess":
			input, err := resolve(jop.Input)
			if err != nil {
				return err
			}
			index, err := resolve(jop.IndexValue)
			if err != nil {
				return err
			}
			v := b.Subaccess(input, index, loc)
			values[bindName(jop, jop.Result)] = v

		case "mux":
			cond, err := resolve(jop.Cond)
			if err != nil {
				return err
			}
			high, err := resolve(jop.High)
			if err != nil {
				return err
			}
			low, err := resolve(jop.Low)
			if err != nil {
				return err
			}
			v := b.Mux(cond, high, low, loc)
			values[bindName(jop, jop.Result)] = v

		case "constant":
			t, err := toType(*jop.Type)
			if err != nil {
				return err
			}
			v := b.Constant(t, jop.Value, loc)
			values[bindName(jop, jop.Result)] = v

		case "as-clock":
			input, err := resolve(jop.Input)
			if err != nil {
				return err
			}
			v := b.AsClock(input, loc)
			values[bindName(jop, jop.Result)] = v

		case "as-async-reset":
			input, err := resolve(jop.Input)
			if err != nil {
				return err
			}
			v := b.AsAsyncReset(input, loc)
			values[bindName(jop, jop.Result)] = v

		case "invalid-value":
			t, err := toType(*jop.Type)
			if err != nil {
				return err
			}
			v := b.InvalidValue(t, loc)
			values[bindName(jop, jop.Result)] = v

		case "instance":
			target := circuit.Module(jop.Target)
			if target == nil {
				return fmt.Errorf("instance %q targets undefined module %q", jop.Name, jop.Target)
			}

			portAnnos := make([][]ir.Annotation, len(target.Ports))
			for i := range portAnnos {
				if i < len(jop.PortAnnotations) {
					for _, c := range jop.PortAnnotations[i] {
						portAnnos[i] = append(portAnnos[i], ir.Annotation{Class: c})
					}
				}
			}

			inst := b.Instance(jop.Name, target, portAnnos, loc)
			inst.Annotations = toAnnotations(jop.Annotations)

			for i, p := range target.Ports {
				values[jop.Name+"."+p.Name] = inst.Results()[i]
			}

		default:
			return fmt.Errorf("unknown op %q", jop.Op)
		}
	}

	return nil
}

// bindName picks the key a result value should be stored under: an explicit
// "result" name if the op declares one, otherwise the fallback (the op's own
// "name" field for declaration ops).
func bindName(jop jsonOp, fallback string) string {
	if jop.Result != "" {
		return jop.Result
	}
	return fallback
}
