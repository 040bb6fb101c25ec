package stretching

import (
	"math"
	"testing"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// profileParams covers each variant with parameter sets spanning its domain.
var profileParams = []struct {
	name    string
	variant Variant
	params  Params
}{
	{"QuadraticBottomSkew", Quadratic, Params{AVqs0: -1}},
	{"QuadraticUniform", Quadratic, Params{AVqs0: 0}},
	{"QuadraticSurfaceSkew", Quadratic, Params{AVqs0: 1}},
	{"SDefault", S, Params{ThetaF: 3, ThetaB: 0.5}},
	{"SNearSigma", S, Params{ThetaF: 0.001, ThetaB: 0}},
	{"SMaxFocus", S, Params{ThetaF: 20, ThetaB: 1}},
	{"Shchepetkin2005Surface", Shchepetkin2005, Params{ThetaS: 7, ThetaB: 0.1, Hc: 30}},
	{"Shchepetkin2005NoBottom", Shchepetkin2005, Params{ThetaS: 4.5, ThetaB: 0, Hc: 10}},
	{"Shchepetkin2005Blend", Shchepetkin2005, Params{ThetaS: 7, ThetaB: 2, Hc: 50}},
	{"Shchepetkin2010Typical", Shchepetkin2010, Params{ThetaS: 4.5, ThetaB: 2, Hc: 30}},
	{"Shchepetkin2010Extremes", Shchepetkin2010, Params{ThetaS: 10, ThetaB: 4, Hc: 5}},
	{"GeyerTypical", Geyer, Params{ThetaS: 1.5, ThetaB: 1.5, Hc: 30}},
	{"GeyerBottomHeavy", Geyer, Params{ThetaS: 1, ThetaB: 3, Hc: 10}},
}

func TestProfileBoundsAndMonotonicity(t *testing.T) {
	for _, tt := range profileParams {
		t.Run(tt.name, func(t *testing.T) {
			for _, levels := range []int{2, 3, 10, 21, 47} {
				cs, err := tt.variant.Profile(levels, tt.params)
				if err != nil {
					t.Fatalf("Profile(%d) error: %v", levels, err)
				}
				if len(cs) != levels {
					t.Fatalf("Profile(%d) length = %d", levels, len(cs))
				}
				if cs[0] != -1 {
					t.Errorf("Profile(%d)[0] = %g, want -1", levels, cs[0])
				}
				if cs[levels-1] != 0 {
					t.Errorf("Profile(%d)[last] = %g, want 0", levels, cs[levels-1])
				}
				for k := 1; k < levels; k++ {
					if cs[k] <= cs[k-1] {
						t.Fatalf("Profile(%d) not strictly increasing at %d: %g <= %g",
							levels, k, cs[k], cs[k-1])
					}
				}
			}
		})
	}
}

func TestProfileRejectsTooFewLevels(t *testing.T) {
	_, err := S.Profile(1, Params{ThetaF: 3, ThetaB: 0.5})
	if !errors.Is(err, errors.ErrCodeParameterOutOfRange) {
		t.Errorf("Profile(1) error = %v, want PARAMETER_OUT_OF_RANGE", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		params  Params
	}{
		{"AVqs0TooLow", Quadratic, Params{AVqs0: -1.5}},
		{"AVqs0TooHigh", Quadratic, Params{AVqs0: 1.5}},
		{"ThetaFZero", S, Params{ThetaF: 0, ThetaB: 0.5}},
		{"ThetaFTooHigh", S, Params{ThetaF: 21, ThetaB: 0.5}},
		{"SThetaBTooHigh", S, Params{ThetaF: 3, ThetaB: 1.5}},
		{"ThetaSNegative", Shchepetkin2005, Params{ThetaS: -1, ThetaB: 1, Hc: 30}},
		{"ThetaSTooHigh", Geyer, Params{ThetaS: 11, ThetaB: 1, Hc: 30}},
		{"RomsThetaBTooHigh", Shchepetkin2010, Params{ThetaS: 5, ThetaB: 5, Hc: 30}},
		{"HcZero", Shchepetkin2005, Params{ThetaS: 5, ThetaB: 1, Hc: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.variant.Validate(tt.params)
			if !errors.Is(err, errors.ErrCodeParameterOutOfRange) {
				t.Errorf("Validate() error = %v, want PARAMETER_OUT_OF_RANGE", err)
			}
		})
	}
}

func TestQuadraticUniformIsLinear(t *testing.T) {
	cs, err := Quadratic.Profile(11, Params{AVqs0: 0})
	if err != nil {
		t.Fatal(err)
	}
	for k, c := range cs {
		want := -1 + float64(k)/10
		if math.Abs(c-want) > 1e-12 {
			t.Errorf("uniform profile[%d] = %g, want %g", k, c, want)
		}
	}
}

func TestZProfileSpansColumn(t *testing.T) {
	for _, tt := range profileParams {
		t.Run(tt.name, func(t *testing.T) {
			const depth = 1000.0
			z, err := tt.variant.ZProfile(depth, 21, tt.params)
			if err != nil {
				t.Fatalf("ZProfile error: %v", err)
			}
			if z[0] != -depth {
				t.Errorf("z[0] = %g, want %g", z[0], -depth)
			}
			if z[len(z)-1] != tt.params.Etal {
				t.Errorf("z[last] = %g, want %g", z[len(z)-1], tt.params.Etal)
			}
			for k := 1; k < len(z); k++ {
				if z[k] <= z[k-1] {
					t.Fatalf("z not strictly increasing at %d: %g <= %g", k, z[k], z[k-1])
				}
			}
		})
	}
}

func TestZProfileRejectsNegativeDepth(t *testing.T) {
	_, err := Quadratic.ZProfile(-5, 10, Params{AVqs0: -1})
	if !errors.Is(err, errors.ErrCodeNegativeDepth) {
		t.Errorf("ZProfile(-5) error = %v, want NEGATIVE_DEPTH", err)
	}
}

func TestParseVariantRoundTrip(t *testing.T) {
	for _, v := range Variants {
		got, err := ParseVariant(v.String())
		if err != nil {
			t.Fatalf("ParseVariant(%q) error: %v", v.String(), err)
		}
		if got != v {
			t.Errorf("ParseVariant(%q) = %v, want %v", v.String(), got, v)
		}
	}

	if _, err := ParseVariant("spline"); !errors.Is(err, errors.ErrCodeInvalidSpec) {
		t.Errorf("ParseVariant(spline) error = %v, want INVALID_SPEC", err)
	}
}
