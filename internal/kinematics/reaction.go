// Package kinematics implements the reaction-kinematics engine for planning
// SE-SPS spectrometer experiments: given a two-body reaction target(p,e)residual
// and a set of excitation energies of the residual, it computes the magnetic
// rigidity at which each ejectile is bent by the spectrometer.
//
// The engine is pure computation. Mass-table lookups and excitation-level
// retrieval are collaborators passed in from the outside; the engine only
// consumes already-resolved masses and energies.
package kinematics

import "fmt"

// RhoPoint is one solver output: the excitation energy of the residual (MeV)
// and the resulting ejectile rigidity (cm).
type RhoPoint struct {
	Excitation float64
	Rho        float64
}

// Reaction describes one two-body reaction target(projectile,ejectile)residual
// together with the excitation levels of its residual and the evaluated
// rigidity values.
//
// Residual.Z, Residual.A and Identifier are derived fields; Resolve is the
// only mutator that recomputes them, always together, so they can never be
// stale relative to each other.
type Reaction struct {
	Target     Role
	Projectile Role
	Ejectile   Role
	Residual   Role

	// Identifier is the display form "Target(Projectile,Ejectile)Residual",
	// with "None" in place of any unresolved label.
	Identifier string

	// ExcitationLevels holds the fetched levels of the residual in MeV, in
	// the order the excitation source produced them. The engine never
	// re-sorts or filters them.
	ExcitationLevels []float64

	// ExtraLevels holds user-added levels in MeV, appended after the fetched
	// set during evaluation.
	ExtraLevels []float64

	// RhoValues is the evaluation output, cleared and fully recomputed by
	// every Evaluate call. It is stale if masses, angle, field, or beam
	// energy change after the last evaluation.
	RhoValues []RhoPoint
}

// Resolve recomputes the residual (Z, A) from charge and mass-number balance,
// looks up all four roles in the mass table, and rebuilds the identifier.
// Lookup failures are represented as nil role data, never as an error; a
// reaction with unresolved roles is still valid to hold but cannot be
// evaluated. Excitation levels and rho values are left untouched.
func (r *Reaction) Resolve(masses MassLookup) {
	r.Residual.Z = r.Target.Z + r.Projectile.Z - r.Ejectile.Z
	r.Residual.A = r.Target.A + r.Projectile.A - r.Ejectile.A

	for _, role := range []*Role{&r.Target, &r.Projectile, &r.Ejectile, &r.Residual} {
		role.Data = nil
		if data, ok := masses.Lookup(role.Z, role.A); ok {
			role.Data = &data
		}
	}

	r.Identifier = fmt.Sprintf("%s(%s,%s)%s",
		r.Target.label(), r.Projectile.label(), r.Ejectile.label(), r.Residual.label())
}

// Resolved reports whether all four roles have mass-table data, i.e. whether
// the reaction satisfies the solver's precondition.
func (r *Reaction) Resolved() bool {
	return r.Target.Data != nil && r.Projectile.Data != nil &&
		r.Ejectile.Data != nil && r.Residual.Data != nil
}

// Levels returns the working list of excitation energies for evaluation:
// the fetched levels first, then the user-added extras, each in its original
// order.
func (r *Reaction) Levels() []float64 {
	levels := make([]float64, 0, len(r.ExcitationLevels)+len(r.ExtraLevels))
	levels = append(levels, r.ExcitationLevels...)
	return append(levels, r.ExtraLevels...)
}

// ReactionSet is an ordered collection of reactions. Insertion order is
// meaningful downstream (plot color and z-order follow the index), so the
// set only supports append and removal by index.
type ReactionSet struct {
	Reactions []*Reaction
}

// Add appends a reaction to the set.
func (s *ReactionSet) Add(r *Reaction) {
	s.Reactions = append(s.Reactions, r)
}

// Remove deletes the reaction at index i, preserving the order of the rest.
// Out-of-range indices are ignored.
func (s *ReactionSet) Remove(i int) {
	if i < 0 || i >= len(s.Reactions) {
		return
	}
	s.Reactions = append(s.Reactions[:i], s.Reactions[i+1:]...)
}
