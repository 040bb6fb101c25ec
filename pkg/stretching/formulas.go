package stretching

import "math"

// hscale is the fixed scale constant of the Geyer stretching function.
const hscale = 3.0

// quadraticC transforms sigma with a quadratic skew. a=-1 concentrates
// resolution at the bottom, a=+1 at the surface, a=0 leaves sigma uniform.
func quadraticC(s, a float64) float64 {
	return a*s*s + (1+a)*s
}

// sTransformC is the Song & Haidvogel style S-transform: theta_f sets the
// focusing intensity, theta_b blends surface-focused (0) against
// surface-and-bottom-focused (1) stretching.
func sTransformC(s, thetaF, thetaB float64) float64 {
	return (1-thetaB)*math.Sinh(thetaF*s)/math.Sinh(thetaF) +
		thetaB*(math.Tanh(thetaF*(s+0.5))-math.Tanh(thetaF*0.5))/
			(2*math.Tanh(thetaF*0.5))
}

// shchepetkin2005C is ROMS VSTRETCHING=2 (Shchepetkin & McWilliams 2005,
// Ocean Modelling 9, 347-404) with aweight = bweight = 1.
func shchepetkin2005C(s, thetaS, thetaB float64) float64 {
	if thetaS <= 0 {
		return s
	}
	csur := (1 - math.Cosh(thetaS*s)) / (math.Cosh(thetaS) - 1)
	if thetaB <= 0 {
		return csur
	}
	cbot := math.Sinh(thetaB*(s+1))/math.Sinh(thetaB) - 1
	sp := s + 1
	cweight := sp * (1 + (1 - sp)) // aweight = bweight = 1
	return cweight*csur + (1-cweight)*cbot
}

// shchepetkin2010C is ROMS VSTRETCHING=4: the surface stretching is passed
// through a second, exponential stretching controlled by theta_b.
func shchepetkin2010C(s, thetaS, thetaB float64) float64 {
	var csur float64
	if thetaS > 0 {
		csur = (1 - math.Cosh(thetaS*s)) / (math.Cosh(thetaS) - 1)
	} else {
		csur = -s * s
	}
	if thetaB <= 0 {
		return csur
	}
	return (math.Exp(thetaB*csur) - 1) / (1 - math.Exp(-thetaB))
}

// geyerC is ROMS VSTRETCHING=3 (R. Geyer), designed for high bottom
// boundary layer resolution in relatively shallow applications. theta_s acts
// as the surface exponent, theta_b as the bottom exponent.
func geyerC(s, thetaS, thetaB float64) float64 {
	logCoshH := math.Log(math.Cosh(hscale))
	cbot := math.Log(math.Cosh(hscale*math.Pow(s+1, thetaB)))/logCoshH - 1
	csur := -math.Log(math.Cosh(hscale*math.Pow(math.Abs(s), thetaS))) / logCoshH
	cweight := 0.5 * (1 - math.Tanh(hscale*(s+0.5)))
	return cweight*cbot + (1-cweight)*csur
}
