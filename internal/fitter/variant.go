// Public domain.

package fitter

import "fmt"

// Variant selects one of the point source point lens models.
type Variant int

const (
	PSPL Variant = iota
	PSPLPhot
	PSPLParallax
	PSPLPhotParallax
)

var variants = [...]struct {
	name   string
	dir    string // output subdirectory
	solver string // solver class of the modeling library
	params []string
}{
	PSPL: {"pspl", "mnest_pspl/", "PSPL_Solver", []string{
		"mL", "t0", "xS0_E", "xS0_N", "beta",
		"muL_E", "muL_N", "muS_E", "muS_N", "dL", "dS", "mag_base"}},
	PSPLPhot: {"pspl_phot", "mnest_pspl_phot/", "PSPL_phot_Solver", []string{
		"t0", "u0_amp", "tE", "mag_base"}},
	PSPLParallax: {"pspl_par", "mnest_pspl_par/", "PSPL_parallax_Solver", []string{
		"mL", "t0", "xS0_E", "xS0_N", "beta",
		"muL_E", "muL_N", "muS_E", "muS_N", "dL", "dS", "mag_base"}},
	PSPLPhotParallax: {"pspl_par_phot", "mnest_pspl_par_phot/", "PSPL_phot_parallax_Solver", []string{
		"t0", "u0_amp", "tE", "piE_E", "piE_N", "mag_base"}},
}

// Select returns the variant for the combination of options.
func Select(parallax, photOnly bool) Variant {
	switch {
	case parallax && photOnly:
		return PSPLPhotParallax
	case parallax:
		return PSPLParallax
	case photOnly:
		return PSPLPhot
	}
	return PSPL
}

// ParseVariant returns the variant with the given name, as printed by
// String.
func ParseVariant(s string) (Variant, error) {
	for v := range variants {
		if variants[v].name == s {
			return Variant(v), nil
		}
	}
	return 0, fmt.Errorf("unknown model variant %q", s)
}

func (v Variant) String() string { return variants[v].name }

// Dir is the output subdirectory, with trailing slash, of the variant.
func (v Variant) Dir() string { return variants[v].dir }

// SolverName names the solver of the external modeling library.
func (v Variant) SolverName() string { return variants[v].solver }

// Params lists the fitted parameters in the column order of the solver
// output.
func (v Variant) Params() []string { return variants[v].params }

// Astrometric reports whether the variant fits astrometry as well as
// photometry.
func (v Variant) Astrometric() bool {
	return v == PSPL || v == PSPLParallax
}

// Parallax reports whether the variant includes annual parallax.
func (v Variant) Parallax() bool {
	return v == PSPLParallax || v == PSPLPhotParallax
}
