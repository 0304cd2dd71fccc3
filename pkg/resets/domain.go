package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/instancegraph"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// Domain describes the reset a module should implement: the value acting as
// its async reset (nil if the module has no reset domain at all), and
// whether this module is the *root* of that domain rather than inheriting it
// from a parent instantiation.
type Domain struct {
	Reset *ir.Value
	IsTop bool
}

func (d Domain) Equal(o Domain) bool {
	return d.Reset == o.Reset && d.IsTop == o.IsTop
}

type domainEntry struct {
	Domain Domain
	Path   []*ir.InstanceOp
}

// BuildDomains walks the instance hierarchy in depth-first order, rooted at
// graph's top-level module, propagating each module's reset domain down to
// its instances unless overridden by an annotation, then reports any module
// reached through conflicting domains. On success it returns exactly one
// Domain per reachable module.
func BuildDomains(graph *instancegraph.Graph, annotated map[*ir.Module]ModuleReset, rep *diag.Reporter) (map[*ir.Module]Domain, bool) {
	top := graph.TopLevelModule()
	if top == nil {
		return map[*ir.Module]Domain{}, true
	}

	entries := make(map[*ir.Module][]domainEntry)

	var visit func(module *ir.Module, path []*ir.InstanceOp, parentReset *ir.Value)
	visit = func(module *ir.Module, path []*ir.InstanceOp, parentReset *ir.Value) {
		domain := Domain{Reset: parentReset, IsTop: false}

		if mr, ok := annotated[module]; ok {
			if mr.Ignore {
				domain = Domain{Reset: nil, IsTop: false}
			} else {
				domain = Domain{Reset: mr.Reset, IsTop: true}
			}
		}

		already := false

		for _, e := range entries[module] {
			if e.Domain.Equal(domain) {
				already = true
				break
			}
		}

		if !already {
			pathCopy := append([]*ir.InstanceOp(nil), path...)
			entries[module] = append(entries[module], domainEntry{Domain: domain, Path: pathCopy})
		}

		for _, rec := range graph.Instances(module) {
			childPath := append(path, rec.Instance)
			visit(rec.Target, childPath, domain.Reset)
		}
	}

	visit(top, nil, nil)

	result := make(map[*ir.Module]Domain, len(entries))
	anyFailed := false

	for module, list := range entries {
		result[module] = list[len(list)-1].Domain

		if len(list) <= 1 {
			continue
		}

		anyFailed = true
		reportDomainConflict(module, list, rep)
	}

	return result, !anyFailed
}

// reportDomainConflict emits one note per conflicting instantiation path,
// plus one declaration note per distinct domain root reset, grouping
// repeated domain roots under a single declaration note rather than
// repeating it for every conflicting path.
func reportDomainConflict(module *ir.Module, list []domainEntry, rep *diag.Reporter) {
	anchorLoc := diag.Loc{}
	if len(list) > 0 && len(list[0].Path) > 0 {
		anchorLoc = list[0].Path[len(list[0].Path)-1].Loc()
	}

	d := rep.Errorf(diag.MultiDomainInstantiation, anchorLoc,
		"module %q instantiated in different reset domains", module.Name)

	printed := make(map[*ir.Value]bool)

	for _, entry := range list {
		loc := diag.Loc{}
		if len(entry.Path) > 0 {
			loc = entry.Path[len(entry.Path)-1].Loc()
		}

		desc := describePath(entry.Path)

		if entry.Domain.Reset == nil {
			d.Note(loc, "%s is in no reset domain", desc)
			continue
		}

		d.Note(loc, "%s is in reset domain rooted at %s", desc, resetName(entry.Domain.Reset))

		if !printed[entry.Domain.Reset] {
			printed[entry.Domain.Reset] = true
			d.Note(entry.Domain.Reset.Loc(), "reset domain %s declared here", resetName(entry.Domain.Reset))
		}
	}
}

func describePath(path []*ir.InstanceOp) string {
	if len(path) == 0 {
		return "root instance"
	}

	desc := "instance '"
	for i, inst := range path {
		if i > 0 {
			desc += "/"
		}
		desc += inst.Name
	}
	return desc + "'"
}

func resetName(v *ir.Value) string {
	if v.IsPort() {
		return "port '" + v.Module().Ports[v.PortIndex()].Name + "'"
	}

	switch op := v.DefiningOp().(type) {
	case *ir.WireOp:
		return "wire '" + op.Name + "'"
	case *ir.NodeOp:
		return "node '" + op.Name + "'"
	default:
		return "value"
	}
}
