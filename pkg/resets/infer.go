package resets

import (
	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// Infer determines the concrete Kind of every net in m. It stops at the
// first net that has no well-defined answer, recording a diagnostic for it
// and leaving that net (and any nets not yet visited) Uninferred.
func Infer(m *Map, rep *diag.Reporter) bool {
	for _, net := range m.Nets() {
		if !inferNet(net, rep) {
			return false
		}
	}

	return true
}

func inferNet(net *Net, rep *diag.Reporter) bool {
	var asyncDrives, syncDrives, invalidDrives int

	for _, node := range net.Nodes() {
		if !node.Type.IsResetType() {
			reportBadNetTyping(node, rep)
			return false
		}

		switch node.Type.(type) {
		case ir.AsyncResetType:
			asyncDrives++
		case ir.UIntType:
			syncDrives++
		default:
			if _, ok := node.Field.Value.DefiningOp().(*ir.InvalidValueOp); ok {
				invalidDrives++
			}
		}
	}

	if asyncDrives == 0 && syncDrives == 0 && invalidDrives == 0 {
		reportUndrivenNet(net.GuessRoot(), rep)
		return false
	}

	if asyncDrives > 0 && syncDrives > 0 {
		reportMixedKind(net.GuessRoot(), asyncDrives >= syncDrives, net.Drives, rep)
		return false
	}

	if asyncDrives > 0 {
		net.Kind = Async
	} else {
		net.Kind = Sync
	}

	return true
}
