package resets

import "github.com/gofirrtl/resetinfer/pkg/diag"

// reportBadNetTyping mirrors the original's search for which drive actually
// pulled a non-reset-typed value into the network, so the diagnostic points
// at the offending connect rather than the net as a whole.
func reportBadNetTyping(node *Node, rep *diag.Reporter) {
	loc := node.Field.Value.Loc()
	for _, drive := range node.net.Drives {
		if drive.Dst == node || drive.Src == node {
			loc = drive.Loc
			break
		}
	}

	rep.Errorf(diag.BadNetTyping, loc,
		"reset network involves non-reset type %s", node.Type)
}

func reportUndrivenNet(root FieldRef, rep *diag.Reporter) {
	rep.Errorf(diag.UndrivenNet, root.Value.Loc(),
		"reset network never driven with a concrete type")
}

// reportMixedKind mirrors the original's "simultaneously connected to async
// and sync resets" diagnostic, annotating every drive on the losing side.
func reportMixedKind(root FieldRef, majorityAsync bool, drives []Drive, rep *diag.Reporter) {
	suggestion := "sync?"
	if majorityAsync {
		suggestion = "async?"
	}

	d := rep.Errorf(diag.MixedKindNet, root.Value.Loc(),
		"reset network simultaneously connected to async and sync resets")
	d.Note(root.Value.Loc(), "did you intend for the reset to be %s", suggestion)

	losingKind := Sync
	if !majorityAsync {
		losingKind = Async
	}

	for _, drive := range drives {
		if drive.Dst.effectiveKind() == losingKind || drive.Src.effectiveKind() == losingKind {
			d.Note(drive.Loc, "offending %s drive here", losingKind)
		}
	}
}
