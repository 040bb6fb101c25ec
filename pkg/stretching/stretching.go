// Package stretching implements the vertical coordinate stretching functions
// used to distribute sigma levels over the water column.
//
// Five variants are supported, forming a closed set:
//   - Quadratic: single-parameter curvature control (a_vqs0)
//   - S: classic sigma S-transform (theta_f, theta_b)
//   - Shchepetkin2005: ROMS VSTRETCHING=2 (theta_s, theta_b, hc)
//   - Shchepetkin2010: ROMS VSTRETCHING=4 double stretching
//   - Geyer: ROMS VSTRETCHING=3, high bottom boundary layer resolution
//
// Each variant is a pure mapping from a level count to a normalized profile
// of sigma values in [-1, 0]: index 0 is the bottom (-1), the last index is
// the surface (0), and values increase strictly in between. Profiles are
// deterministic in their inputs and carry no state.
//
// See: https://www.myroms.org/wiki/Vertical_S-coordinate
package stretching

import (
	"strings"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// Variant identifies a stretching function.
type Variant int

const (
	// Quadratic applies sigma_hat = a*s^2 + (1+a)*s.
	Quadratic Variant = iota
	// S is the hyperbolic sine/tangent S-transform.
	S
	// Shchepetkin2005 is the ROMS/Rutgers VSTRETCHING=2 function.
	Shchepetkin2005
	// Shchepetkin2010 is the ROMS/Rutgers VSTRETCHING=4 double stretching.
	Shchepetkin2010
	// Geyer is the ROMS/Rutgers VSTRETCHING=3 function.
	Geyer
)

// Variants lists all supported stretching functions in display order.
var Variants = []Variant{Quadratic, S, Shchepetkin2005, Shchepetkin2010, Geyer}

// String returns the canonical lowercase name used on the CLI.
func (v Variant) String() string {
	switch v {
	case Quadratic:
		return "quadratic"
	case S:
		return "s"
	case Shchepetkin2005:
		return "shchepetkin2005"
	case Shchepetkin2010:
		return "shchepetkin2010"
	case Geyer:
		return "geyer"
	}
	return "unknown"
}

// ParseVariant resolves a CLI/config name to a Variant.
// Matching is case-insensitive.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "quadratic":
		return Quadratic, nil
	case "s":
		return S, nil
	case "shchepetkin2005":
		return Shchepetkin2005, nil
	case "shchepetkin2010":
		return Shchepetkin2010, nil
	case "geyer":
		return Geyer, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidSpec,
		"unknown stretching function %q (want quadratic, s, shchepetkin2005, shchepetkin2010 or geyer)", name)
}

// Params bundles the tunables of all variants. Each variant reads only the
// fields it documents; the rest are ignored.
type Params struct {
	// AVqs0 controls quadratic curvature: -1 skews resolution toward the
	// bottom, +1 toward the surface, 0 is uniform. Range [-1, 1].
	AVqs0 float64
	// ThetaF is the S-transform focusing intensity. Range (0, 20]; values
	// near 0 approach a traditional sigma grid.
	ThetaF float64
	// ThetaB blends surface- and bottom-focused stretching. Range [0, 1]
	// for the S-transform, [0, 4] for the ROMS family.
	ThetaB float64
	// ThetaS is the ROMS-family surface stretching parameter. Range [0, 10].
	ThetaS float64
	// Hc is the ROMS-family critical depth in meters. Must be > 0.
	Hc float64
	// Etal is the free-surface elevation, positive up. Usually 0.
	Etal float64
}

// DefaultParams returns the parameter set the designer starts from.
func DefaultParams() Params {
	return Params{
		AVqs0:  -1.0,
		ThetaF: 3.0,
		ThetaB: 0.5,
		ThetaS: 4.5,
		Hc:     30.0,
	}
}

// Validate checks the fields of p that v uses against their documented
// domains. Returns a ParameterOutOfRange error naming the offending value.
func (v Variant) Validate(p Params) error {
	switch v {
	case Quadratic:
		return validateAVqs0(p.AVqs0)
	case S:
		if err := validateAVqs0(p.AVqs0); err != nil {
			return err
		}
		if p.ThetaF <= 0 || p.ThetaF > 20 {
			return errors.New(errors.ErrCodeParameterOutOfRange,
				"theta_f must be in (0, 20], got %g", p.ThetaF)
		}
		if p.ThetaB < 0 || p.ThetaB > 1 {
			return errors.New(errors.ErrCodeParameterOutOfRange,
				"theta_b must be in [0, 1], got %g", p.ThetaB)
		}
		return nil
	case Shchepetkin2005, Shchepetkin2010, Geyer:
		if p.ThetaS < 0 || p.ThetaS > 10 {
			return errors.New(errors.ErrCodeParameterOutOfRange,
				"theta_s must be in [0, 10], got %g", p.ThetaS)
		}
		if p.ThetaB < 0 || p.ThetaB > 4 {
			return errors.New(errors.ErrCodeParameterOutOfRange,
				"theta_b must be in [0, 4], got %g", p.ThetaB)
		}
		if p.Hc <= 0 {
			return errors.New(errors.ErrCodeParameterOutOfRange,
				"hc (critical depth) must be > 0, got %g", p.Hc)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidSpec, "unknown stretching variant %d", int(v))
}

func validateAVqs0(a float64) error {
	if a < -1 || a > 1 {
		return errors.New(errors.ErrCodeParameterOutOfRange,
			"a_vqs0 must be in [-1, 1], got %g", a)
	}
	return nil
}

// Profile computes the normalized stretching profile for the given level
// count: levels values in [-1, 0], first exactly -1, last exactly 0,
// strictly increasing. levels must be >= 2.
func (v Variant) Profile(levels int, p Params) ([]float64, error) {
	if levels < 2 {
		return nil, errors.New(errors.ErrCodeParameterOutOfRange,
			"levels must be >= 2, got %d", levels)
	}
	if err := v.Validate(p); err != nil {
		return nil, err
	}

	cs := make([]float64, levels)
	ds := 1.0 / float64(levels-1)
	for k := 1; k < levels-1; k++ {
		s := -1.0 + float64(k)*ds
		switch v {
		case Quadratic:
			cs[k] = quadraticC(s, p.AVqs0)
		case S:
			cs[k] = sTransformC(s, p.ThetaF, p.ThetaB)
		case Shchepetkin2005:
			cs[k] = shchepetkin2005C(s, p.ThetaS, p.ThetaB)
		case Shchepetkin2010:
			cs[k] = shchepetkin2010C(s, p.ThetaS, p.ThetaB)
		case Geyer:
			cs[k] = geyerC(s, p.ThetaS, p.ThetaB)
		}
	}
	// Endpoints are pinned exactly, as in the ROMS reference code.
	cs[0] = -1.0
	cs[levels-1] = 0.0

	for k := 1; k < levels; k++ {
		if cs[k] <= cs[k-1] {
			return nil, errors.New(errors.ErrCodeDegenerateProfile,
				"%s profile not strictly increasing at level %d: %g <= %g",
				v, k, cs[k], cs[k-1])
		}
	}
	return cs, nil
}

// ZProfile computes absolute z-coordinates (negative down, bottom first) for
// a water column of the given depth. The ROMS-family variants apply the
// hc-weighted conversion z = (hc*s + C(s)*h)/(hc + h) * h; the Quadratic and
// S variants scale the profile over the column height, offset by etal.
func (v Variant) ZProfile(depth float64, levels int, p Params) ([]float64, error) {
	if depth < 0 {
		return nil, errors.New(errors.ErrCodeNegativeDepth,
			"depth must be >= 0, got %g", depth)
	}
	cs, err := v.Profile(levels, p)
	if err != nil {
		return nil, err
	}
	z := make([]float64, levels)
	switch v {
	case Shchepetkin2005, Shchepetkin2010, Geyer:
		hinv := 1.0 / (p.Hc + depth)
		ds := 1.0 / float64(levels-1)
		for k := range cs {
			s := -1.0 + float64(k)*ds
			z[k] = (p.Hc*s + cs[k]*depth) * hinv * depth
		}
		z[0] = -depth
		z[levels-1] = 0
	default:
		for k, c := range cs {
			z[k] = c*(depth+p.Etal) + p.Etal
		}
	}
	return z, nil
}
