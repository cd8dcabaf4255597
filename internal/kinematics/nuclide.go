package kinematics

// NuclideData holds the resolved physical data for one nuclear species.
// Instances are copied into the Reaction that looked them up; the engine
// never shares or mutates them afterwards.
type NuclideData struct {
	Isotope string  // display label, e.g. "12C"
	Z       int     // charge number
	A       int     // mass number
	Mass    float64 // nuclear rest mass in MeV
}

// MassLookup resolves a (Z, A) pair to nuclide data. The boolean is false
// when the nuclide is unknown; an unknown nuclide is not an error condition.
// Implementations must be deterministic for a given (Z, A) within a session.
type MassLookup interface {
	Lookup(z, a int) (NuclideData, bool)
}

// Role is one of the four slots of a two-body reaction. Z and A are set by
// the caller (or derived, for the residual); Data is filled by Resolve and
// stays nil when the mass table has no entry for (Z, A).
type Role struct {
	Z    int
	A    int
	Data *NuclideData
}

// label returns the isotope label for display, or "None" while unresolved.
func (r Role) label() string {
	if r.Data == nil {
		return "None"
	}
	return r.Data.Isotope
}
