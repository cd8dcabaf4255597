package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// SpeedOfLight is c in m/s, exact by definition.
const SpeedOfLight = 299792458.0

// qbrhoToP converts qBρ (kG·cm) to momentum (MeV/c).
const qbrhoToP = 1.0e-9 * SpeedOfLight

// Sentinel errors for solver preconditions and outcomes. Callers distinguish
// a skipped level (ErrForbidden) from a reaction that cannot run at all.
var (
	ErrUnresolved       = errors.New("kinematics: reaction has unresolved nuclides")
	ErrForbidden        = errors.New("kinematics: level is kinematically forbidden")
	ErrInvalidParameter = errors.New("kinematics: non-physical parameter")
	ErrNoLevels         = errors.New("kinematics: no excitation levels to evaluate")
)

// Parameters are the spectrometer settings shared by every reaction in a set.
type Parameters struct {
	BeamEnergy    float64 // MeV
	MagneticField float64 // kG
	Angle         float64 // degrees
}

// validate rejects non-physical settings up front so the solver never has to
// divide by zero or take a square root of a negative beam energy.
func (p Parameters) validate() error {
	if p.MagneticField <= 0 {
		return fmt.Errorf("%w: magnetic field %g kG", ErrInvalidParameter, p.MagneticField)
	}
	if p.BeamEnergy < 0 {
		return fmt.Errorf("%w: beam energy %g MeV", ErrInvalidParameter, p.BeamEnergy)
	}
	return nil
}

// Rho computes the laboratory magnetic rigidity (cm) of the ejectile for a
// single excitation energy of the residual, using non-relativistic two-body
// kinematics for the outgoing energy and the relativistic momentum
// equivalence for the rigidity conversion.
//
// Returns ErrUnresolved if any role lacks mass data, ErrInvalidParameter for
// non-physical settings or ejectile charge, and ErrForbidden when the
// channel is energetically closed at this excitation and angle.
func (r *Reaction) Rho(p Parameters, excitation float64) (float64, error) {
	if !r.Resolved() {
		return 0, fmt.Errorf("%w: %s", ErrUnresolved, r.Identifier)
	}
	if err := p.validate(); err != nil {
		return 0, err
	}
	if r.Ejectile.Data.Z < 1 {
		return 0, fmt.Errorf("%w: ejectile charge %d", ErrInvalidParameter, r.Ejectile.Data.Z)
	}

	mt := r.Target.Data.Mass
	mp := r.Projectile.Data.Mass
	me := r.Ejectile.Data.Mass
	mr := r.Residual.Data.Mass

	// Q-value of the reaction into the excited state.
	q := mt + mp - me - mr - excitation

	term1 := math.Sqrt(mp*me*p.BeamEnergy) / (me + mr) * math.Cos(p.Angle*math.Pi/180)
	term2 := (p.BeamEnergy*(mr-mp) + mr*q) / (me + mr)

	disc := term1*term1 + term2
	if disc < 0 {
		return 0, fmt.Errorf("%w: Ex=%.3f MeV at %.1f°", ErrForbidden, excitation, p.Angle)
	}

	// The roots are ±sqrt of the ejectile kinetic energy; the positive root
	// is the forward-going solution.
	k1 := term1 + math.Sqrt(disc)
	k2 := term1 - math.Sqrt(disc)
	var energy float64
	if k1 > 0 {
		energy = k1 * k1
	} else {
		energy = k2 * k2
	}

	momentum := math.Sqrt(energy * (energy + 2*me))
	qbrho := momentum / qbrhoToP
	return qbrho / (p.MagneticField * float64(r.Ejectile.Data.Z)), nil
}
