package resets

import "github.com/gofirrtl/resetinfer/pkg/ir"

// insertResetMux folds a sync reset into every connect that drives target,
// looking through subfield/subindex/subaccess chains so a projection of a
// bundle-typed register gets its own mux fed by the matching projection of
// resetValue. It returns whether resetValue actually ended up used anywhere,
// so the caller can erase unused reset-side projections it created along the
// way.
func insertResetMux(b *ir.Builder, target, reset, resetValue *ir.Value) bool {
	used := false

	for _, useOp := range append([]ir.Op(nil), target.Users()...) {
		loc := useOp.Loc()

		switch op := useOp.(type) {
		case *ir.ConnectOp:
			if op.Dest != target {
				continue
			}
			mux := b.Mux(reset, resetValue, op.Src, loc)
			op.Src = mux
			used = true

		case *ir.PartialConnectOp:
			if op.Dest != target {
				continue
			}
			mux := b.Mux(reset, resetValue, op.Src, loc)
			op.Src = mux
			used = true

		case *ir.SubfieldOp:
			sub := b.Subfield(resetValue, op.FieldName, loc)
			if insertResetMux(b, op.Results()[0], reset, sub) {
				used = true
			} else {
				b.Module.Erase(sub.DefiningOp())
			}

		case *ir.SubindexOp:
			sub := b.Subindex(resetValue, op.Index, loc)
			if insertResetMux(b, op.Results()[0], reset, sub) {
				used = true
			} else {
				b.Module.Erase(sub.DefiningOp())
			}

		case *ir.SubaccessOp:
			sub := b.Subaccess(resetValue, op.Index, loc)
			if insertResetMux(b, op.Results()[0], reset, sub) {
				used = true
			} else {
				b.Module.Erase(sub.DefiningOp())
			}
		}
	}

	return used
}
