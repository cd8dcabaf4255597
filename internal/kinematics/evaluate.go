package kinematics

import (
	"errors"
	"fmt"
)

// Report describes the outcome of evaluating one reaction in a set. A
// reaction with skipped levels can still succeed overall; Forbidden lists
// the excitation energies of kinematically closed channels so a skipped
// level is never confused with a zero-rigidity result.
type Report struct {
	Index      int
	Identifier string
	Err        error     // ErrUnresolved, ErrInvalidParameter or ErrNoLevels; nil on success
	Evaluated  int       // levels that produced a rigidity
	Forbidden  []float64 // levels skipped as kinematically closed
}

// Evaluate runs the solver for every excitation level of every reaction in
// the set, in order, storing the (Ex, ρ) pairs on each reaction's RhoValues.
// RhoValues is cleared first, so the output is a pure function of the current
// reaction state and the parameters: calling Evaluate twice with unchanged
// inputs yields identical results.
//
// Failures are isolated per reaction — a reaction that cannot be evaluated is
// reported and left with empty RhoValues while the rest of the set proceeds.
// The returned slice is index-aligned with s.Reactions.
func (s *ReactionSet) Evaluate(p Parameters) []Report {
	reports := make([]Report, len(s.Reactions))
	for i, r := range s.Reactions {
		reports[i] = Report{Index: i, Identifier: r.Identifier}
		r.RhoValues = nil

		// Resolution is checked before levels so an unresolved reaction is
		// reported as such even when it also has nothing to evaluate.
		if !r.Resolved() {
			reports[i].Err = fmt.Errorf("%w: %s", ErrUnresolved, r.Identifier)
			continue
		}

		levels := r.Levels()
		if len(levels) == 0 {
			reports[i].Err = ErrNoLevels
			continue
		}

		r.RhoValues = make([]RhoPoint, 0, len(levels))
		for _, ex := range levels {
			rho, err := r.Rho(p, ex)
			switch {
			case err == nil:
				r.RhoValues = append(r.RhoValues, RhoPoint{Excitation: ex, Rho: rho})
				reports[i].Evaluated++
			case errors.Is(err, ErrForbidden):
				reports[i].Forbidden = append(reports[i].Forbidden, ex)
			default:
				// Bad parameters fail the whole reaction; no partial
				// output is kept.
				reports[i].Err = err
				r.RhoValues = nil
				reports[i].Evaluated = 0
				reports[i].Forbidden = nil
			}
			if reports[i].Err != nil {
				break
			}
		}
	}
	return reports
}
