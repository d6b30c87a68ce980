package xs

import (
	"errors"
	"fmt"
	"math"
)

// MaxRejections is the number of candidates a rejection sampler draws
// before giving up.
const MaxRejections = 1000000

// ErrRejectionLimit is returned when a sampler runs out of candidates.
var ErrRejectionLimit = errors.New("rejection sampling exceeded its draw limit")

// Rand is a source of uniform deviates in [0, 1).
type Rand interface {
	Float64() float64
}

// Rayleigh samples the cosine of the scattering angle of a coherent
// interaction at energy e from the element's coherent form factor.
func (el *Element) Rayleigh(e float64, rng Rand) (float64, error) {
	k := e / ElectronMass
	x2Max := (ElectronMass / PlanckC) * k
	if !(x2Max > 0) {
		return 0, fmt.Errorf("coherent scattering at energy %g eV", e)
	}
	fMax := el.FormFactor(x2Max, CumulativeCoherentFF)

	for i := 0; i < MaxRejections; i++ {
		f := rng.Float64() * fMax
		x2 := el.inv.Eval(f)
		mu := math.Max(-1, math.Min(1, 1-2*x2/x2Max))

		if rng.Float64() < 0.5*(1+mu*mu) {
			return mu, nil
		}
	}
	return 0, fmt.Errorf("element %d, Rayleigh: %w", el.Z, ErrRejectionLimit)
}

// Compton samples the outgoing energy and scattering cosine of an
// incoherent interaction at energy e. Klein-Nishina candidates are accepted
// with the probability S(x)/S(x_max) given by the incoherent form factor.
func (el *Element) Compton(e float64, rng Rand) (eOut, mu float64, err error) {
	k := e / ElectronMass
	xMax := (ElectronMass / PlanckC) * k
	fMax := el.FormFactor(xMax, IncoherentFF)
	if !(fMax > 0) {
		return 0, 0, fmt.Errorf(
			"element %d: incoherent form factor is %g at x = %g: %w",
			el.Z, fMax, xMax, ErrInvalidFormFactor,
		)
	}

	for i := 0; i < MaxRejections; i++ {
		kSample, muSample, err := KleinNishina(k, rng)
		if err != nil {
			return 0, 0, err
		}

		x := ElectronMass / PlanckC * kSample * math.Sqrt(0.5*(1-muSample))
		f := el.FormFactor(x, IncoherentFF)
		if rng.Float64() < f/fMax {
			return kSample * ElectronMass, muSample, nil
		}
	}
	return 0, 0, fmt.Errorf("element %d, Compton: %w", el.Z, ErrRejectionLimit)
}

// KleinNishina samples the free-electron Compton distribution for a photon
// of energy k (in units of the electron rest energy), returning the
// outgoing energy in the same units and the scattering cosine. Kahn's
// rejection method is used below k = 3 and Koblinger's direct method above.
func KleinNishina(k float64, rng Rand) (kOut, mu float64, err error) {
	beta := 1 + 2*k

	if k < 3 {
		t := beta / (beta + 8)
		for i := 0; i < MaxRejections; i++ {
			if rng.Float64() <= t {
				r := 2 * rng.Float64()
				x := 1 + k*r
				if rng.Float64() < 4/x*(1-1/x) {
					return k / x, 1 - r, nil
				}
			} else {
				x := beta / (1 + 2*k*rng.Float64())
				mu = 1 + (1-x)/k
				if rng.Float64() < 0.5*(mu*mu+1/x) {
					return k / x, mu, nil
				}
			}
		}
		return 0, 0, fmt.Errorf("Klein-Nishina at k = %g: %w", k, ErrRejectionLimit)
	}

	g := 1 - 1/(beta*beta)
	t := rng.Float64() * (4/k + 0.5*g + (1-(1+beta)/(k*k))*math.Log(beta))

	switch {
	case t <= 2/k:
		kOut = k / (1 + 2*k*rng.Float64())
	case t <= 4/k:
		kOut = k * (1 + 2*k*rng.Float64()) / beta
	case t <= 4/k+0.5*g:
		kOut = k * math.Sqrt(1-g*rng.Float64())
	default:
		kOut = k / math.Pow(beta, rng.Float64())
	}

	mu = 1 + 1/k - 1/kOut
	return kOut, math.Max(-1, math.Min(1, mu)), nil
}
