package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Nuclear masses in MeV (AME2020 atomic masses with electrons removed),
// precise enough for reference-value tests.
const (
	massProton   = 938.27207
	massDeuteron = 1875.61292
	massC12      = 11174.86324
	massC13      = 12109.48234
)

// testTable is a canned mass lookup for tests.
type testTable map[[2]int]NuclideData

func (t testTable) Lookup(z, a int) (NuclideData, bool) {
	data, ok := t[[2]int{z, a}]
	return data, ok
}

func lightTable() testTable {
	return testTable{
		{1, 1}:  {Isotope: "1H", Z: 1, A: 1, Mass: massProton},
		{1, 2}:  {Isotope: "2H", Z: 1, A: 2, Mass: massDeuteron},
		{6, 12}: {Isotope: "12C", Z: 6, A: 12, Mass: massC12},
		{6, 13}: {Isotope: "13C", Z: 6, A: 13, Mass: massC13},
	}
}

// dpReaction builds a resolved 12C(d,p)13C reaction.
func dpReaction(t *testing.T) *Reaction {
	t.Helper()
	r := &Reaction{
		Target:     Role{Z: 6, A: 12},
		Projectile: Role{Z: 1, A: 2},
		Ejectile:   Role{Z: 1, A: 1},
	}
	r.Resolve(lightTable())
	if !r.Resolved() {
		t.Fatalf("12C(d,p) did not resolve: %q", r.Identifier)
	}
	return r
}

// sps returns the default SE-SPS settings used throughout the original app.
func sps() Parameters {
	return Parameters{BeamEnergy: 16.0, MagneticField: 8.7, Angle: 35.0}
}

func TestResolveDerivesResidual(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	if r.Residual.Z != 6 || r.Residual.A != 13 {
		t.Errorf("residual = (Z=%d, A=%d), want (Z=6, A=13)", r.Residual.Z, r.Residual.A)
	}
	if r.Identifier != "12C(2H,1H)13C" {
		t.Errorf("identifier = %q, want %q", r.Identifier, "12C(2H,1H)13C")
	}
}

func TestResolveUnknownNuclide(t *testing.T) {
	t.Parallel()

	r := &Reaction{
		Target:     Role{Z: 6, A: 12},
		Projectile: Role{Z: 99, A: 300}, // not in any mass table
		Ejectile:   Role{Z: 1, A: 1},
	}
	r.Resolve(lightTable())

	if r.Projectile.Data != nil {
		t.Errorf("projectile data = %+v, want nil", r.Projectile.Data)
	}
	if r.Resolved() {
		t.Error("Resolved() = true for reaction with unknown projectile")
	}
	// Residual (Z=104, A=311) is also unknown, so two labels degrade to None.
	if r.Identifier != "12C(None,1H)None" {
		t.Errorf("identifier = %q, want %q", r.Identifier, "12C(None,1H)None")
	}
}

func TestResolveRecomputesStaleResidual(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	// Switch the projectile to a proton: 12C(p,p)12C elastic.
	r.Projectile = Role{Z: 1, A: 1}
	r.Resolve(lightTable())

	if r.Residual.Z != 6 || r.Residual.A != 12 {
		t.Errorf("residual = (Z=%d, A=%d), want (Z=6, A=12)", r.Residual.Z, r.Residual.A)
	}
	if r.Identifier != "12C(1H,1H)12C" {
		t.Errorf("identifier = %q, want %q", r.Identifier, "12C(1H,1H)12C")
	}
}

func TestRhoGroundStateReference(t *testing.T) {
	t.Parallel()

	// Hand-computed reference for 12C(d,p)13C at Eb=16 MeV, 35°, 8.7 kG:
	// Q0 = 2.7218 MeV, ejectile KE = 17.894 MeV, p = 184.12 MeV/c,
	// rho = 70.59 cm. Inside the usual 69–87 cm SE-SPS acceptance.
	r := dpReaction(t)
	rho, err := r.Rho(sps(), 0.0)
	if err != nil {
		t.Fatalf("Rho(0.0): %v", err)
	}
	if math.Abs(rho-70.59) > 0.05 {
		t.Errorf("rho = %.4f cm, want 70.59 ± 0.05", rho)
	}
	if rho < 69.0 || rho > 87.0 {
		t.Errorf("rho = %.4f cm, outside 69–87 cm acceptance", rho)
	}
}

func TestRhoExcitedStateReference(t *testing.T) {
	t.Parallel()

	// The 4.439 MeV level lowers the ejectile energy, pushing rho below the
	// acceptance window: hand-computed 61.00 cm.
	r := dpReaction(t)
	rho, err := r.Rho(sps(), 4.439)
	if err != nil {
		t.Fatalf("Rho(4.439): %v", err)
	}
	if math.Abs(rho-61.00) > 0.05 {
		t.Errorf("rho = %.4f cm, want 61.00 ± 0.05", rho)
	}
}

func TestRhoFiniteNonNegative(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	params := []Parameters{
		{BeamEnergy: 0, MagneticField: 8.7, Angle: 35},
		{BeamEnergy: 16, MagneticField: 0.5, Angle: 0},
		{BeamEnergy: 16, MagneticField: 17, Angle: 60},
		{BeamEnergy: 50, MagneticField: 8.7, Angle: 12.5},
	}
	for _, p := range params {
		rho, err := r.Rho(p, 0.0)
		if err != nil {
			t.Errorf("Rho(%+v): %v", p, err)
			continue
		}
		if math.IsNaN(rho) || math.IsInf(rho, 0) || rho < 0 {
			t.Errorf("Rho(%+v) = %v, want finite non-negative", p, rho)
		}
	}
}

func TestRhoForbiddenChannel(t *testing.T) {
	t.Parallel()

	// At Ex=30 MeV the excited-state Q-value makes term1²+term2 negative:
	// the channel is closed and must be reported, never returned as NaN.
	r := dpReaction(t)
	_, err := r.Rho(sps(), 30.0)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Rho(30.0) err = %v, want ErrForbidden", err)
	}
}

func TestRhoUnresolvedReaction(t *testing.T) {
	t.Parallel()

	r := &Reaction{
		Target:     Role{Z: 6, A: 12},
		Projectile: Role{Z: 99, A: 300},
		Ejectile:   Role{Z: 1, A: 1},
	}
	r.Resolve(lightTable())
	_, err := r.Rho(sps(), 0.0)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("Rho on unresolved reaction err = %v, want ErrUnresolved", err)
	}
}

func TestRhoInvalidParameters(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	cases := []struct {
		name string
		p    Parameters
	}{
		{"zero field", Parameters{BeamEnergy: 16, MagneticField: 0, Angle: 35}},
		{"negative field", Parameters{BeamEnergy: 16, MagneticField: -8.7, Angle: 35}},
		{"negative beam energy", Parameters{BeamEnergy: -1, MagneticField: 8.7, Angle: 35}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := r.Rho(tc.p, 0.0); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestEvaluateOrdering(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	r.ExcitationLevels = []float64{0.0, 4.439}
	r.ExtraLevels = []float64{3.089, 1.5}

	set := &ReactionSet{}
	set.Add(r)
	reports := set.Evaluate(sps())

	if err := reports[0].Err; err != nil {
		t.Fatalf("report err: %v", err)
	}
	want := []float64{0.0, 4.439, 3.089, 1.5} // fetched first, extras appended, order kept
	if len(r.RhoValues) != len(want) {
		t.Fatalf("len(RhoValues) = %d, want %d", len(r.RhoValues), len(want))
	}
	for i, point := range r.RhoValues {
		if point.Excitation != want[i] {
			t.Errorf("RhoValues[%d].Excitation = %v, want %v", i, point.Excitation, want[i])
		}
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	r.ExcitationLevels = []float64{0.0, 3.089, 4.439}
	set := &ReactionSet{}
	set.Add(r)

	set.Evaluate(sps())
	first := append([]RhoPoint(nil), r.RhoValues...)
	set.Evaluate(sps())

	if diff := cmp.Diff(first, r.RhoValues); diff != "" {
		t.Errorf("second evaluation differs (-first +second):\n%s", diff)
	}
}

func TestEvaluateSkipsForbiddenLevel(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	r.ExcitationLevels = []float64{0.0, 30.0, 4.439}
	set := &ReactionSet{}
	set.Add(r)
	reports := set.Evaluate(sps())

	report := reports[0]
	if report.Err != nil {
		t.Fatalf("report err: %v", report.Err)
	}
	if report.Evaluated != 2 {
		t.Errorf("evaluated = %d, want 2", report.Evaluated)
	}
	if len(report.Forbidden) != 1 || report.Forbidden[0] != 30.0 {
		t.Errorf("forbidden = %v, want [30]", report.Forbidden)
	}
	for _, point := range r.RhoValues {
		if point.Excitation == 30.0 {
			t.Error("forbidden level present in RhoValues")
		}
	}
}

func TestEvaluatePerReactionIsolation(t *testing.T) {
	t.Parallel()

	good := dpReaction(t)
	good.ExcitationLevels = []float64{0.0}

	bad := &Reaction{
		Target:     Role{Z: 6, A: 12},
		Projectile: Role{Z: 99, A: 300},
		Ejectile:   Role{Z: 1, A: 1},
	}
	bad.Resolve(lightTable())
	bad.ExcitationLevels = []float64{0.0}

	set := &ReactionSet{}
	set.Add(bad)
	set.Add(good)
	reports := set.Evaluate(sps())

	if !errors.Is(reports[0].Err, ErrUnresolved) {
		t.Errorf("bad reaction err = %v, want ErrUnresolved", reports[0].Err)
	}
	if len(bad.RhoValues) != 0 {
		t.Errorf("bad reaction RhoValues = %v, want empty", bad.RhoValues)
	}
	if reports[1].Err != nil {
		t.Errorf("good reaction err = %v, want nil", reports[1].Err)
	}
	if len(good.RhoValues) != 1 {
		t.Errorf("good reaction produced %d values, want 1", len(good.RhoValues))
	}
}

func TestEvaluateNoLevels(t *testing.T) {
	t.Parallel()

	r := dpReaction(t)
	set := &ReactionSet{}
	set.Add(r)
	reports := set.Evaluate(sps())

	if !errors.Is(reports[0].Err, ErrNoLevels) {
		t.Errorf("err = %v, want ErrNoLevels", reports[0].Err)
	}
}

func TestReactionSetRemove(t *testing.T) {
	t.Parallel()

	a, b, c := &Reaction{}, &Reaction{}, &Reaction{}
	set := &ReactionSet{}
	set.Add(a)
	set.Add(b)
	set.Add(c)

	set.Remove(1)
	if len(set.Reactions) != 2 || set.Reactions[0] != a || set.Reactions[1] != c {
		t.Errorf("after Remove(1): %d reactions, order broken", len(set.Reactions))
	}

	set.Remove(5) // out of range is a no-op
	if len(set.Reactions) != 2 {
		t.Errorf("Remove out of range changed length to %d", len(set.Reactions))
	}
}
