package cmd

import (
	"os"

	pkgErrors "github.com/pkg/errors"

	"github.com/gofirrtl/resetinfer/pkg/ir"
)

// LoadCircuit reads and decodes the circuit at path. I/O and decode failures
// are wrapped with pkgErrors so the CLI can print a location-free but
// context-rich chain, distinct from the pkg/diag taxonomy the pass itself
// reports through.
func LoadCircuit(path string) (*ir.Circuit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to read circuit file %#v", path)
	}

	circuit, err := ParseCircuit(raw)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to parse circuit file %#v", path)
	}

	return circuit, nil
}
