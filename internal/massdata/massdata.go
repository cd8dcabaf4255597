// Package massdata provides the mass-table collaborator for the kinematics
// engine: a (Z, A) → nuclide lookup built from a plain-text table of atomic
// masses distilled from the AME2020 evaluation.
//
// A table of light nuclides is embedded in the binary; an external file in
// the same format can be supplied through configuration when heavier species
// are needed.
package massdata

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alconley/sps-plot/internal/kinematics"
)

// Conversion constants (CODATA): atomic mass unit in MeV and the electron
// rest mass subtracted per proton to go from atomic to nuclear mass.
const (
	amuToMeV     = 931.49410242
	electronMass = 0.51099895
)

//go:embed amdc2020.txt
var embedded string

type key struct{ z, a int }

// Table is an immutable (Z, A) → NuclideData map satisfying
// kinematics.MassLookup.
type Table struct {
	entries map[key]kinematics.NuclideData
}

// Default returns the table built from the embedded AME2020 extract.
func Default() (*Table, error) {
	return parse(strings.NewReader(embedded), "embedded table")
}

// Load reads a mass table from an external file in the same format as the
// embedded one: whitespace-separated "Z A symbol atomic-mass(u)" lines, with
// '#' comments and blank lines ignored.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("massdata: open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f, path)
}

func parse(r io.Reader, source string) (*Table, error) {
	entries := make(map[key]kinematics.NuclideData)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 4 {
			return nil, fmt.Errorf("massdata: %s line %d: want 4 fields, got %d", source, line, len(fields))
		}
		z, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("massdata: %s line %d: charge number: %w", source, line, err)
		}
		a, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("massdata: %s line %d: mass number: %w", source, line, err)
		}
		atomicMass, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("massdata: %s line %d: atomic mass: %w", source, line, err)
		}
		if z < 0 || a < 1 || atomicMass <= 0 {
			return nil, fmt.Errorf("massdata: %s line %d: non-physical entry Z=%d A=%d mass=%g", source, line, z, a, atomicMass)
		}

		entries[key{z, a}] = kinematics.NuclideData{
			Isotope: isotopeLabel(z, a, fields[2]),
			Z:       z,
			A:       a,
			Mass:    atomicMass*amuToMeV - float64(z)*electronMass,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("massdata: read %s: %w", source, err)
	}

	return &Table{entries: entries}, nil
}

// isotopeLabel builds the NNDC-style label, e.g. "12C". The bare neutron is
// just "n".
func isotopeLabel(z, a int, symbol string) string {
	if z == 0 {
		return symbol
	}
	return strconv.Itoa(a) + symbol
}

// Lookup resolves a (Z, A) pair. The boolean is false for nuclides absent
// from the table; absence is not an error.
func (t *Table) Lookup(z, a int) (kinematics.NuclideData, bool) {
	data, ok := t.entries[key{z, a}]
	return data, ok
}

// Len reports the number of nuclides in the table.
func (t *Table) Len() int { return len(t.entries) }
