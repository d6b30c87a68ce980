package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// RotateDirection returns the unit vector making an angle acos(mu) with dir
// and rotated by the azimuth phi around it.
func RotateDirection(dir r3.Vector, mu, phi float64) r3.Vector {
	mu = math.Max(-1, math.Min(1, mu))
	sinMu := math.Sqrt(1 - mu*mu)
	sinPhi, cosPhi := math.Sincos(phi)

	var out r3.Vector
	a := math.Sqrt(math.Max(0, 1-dir.Z*dir.Z))
	if a > 1e-10 {
		b := sinMu / a
		out = r3.Vector{
			X: dir.X*mu + b*(dir.X*dir.Z*cosPhi-dir.Y*sinPhi),
			Y: dir.Y*mu + b*(dir.Y*dir.Z*cosPhi+dir.X*sinPhi),
			Z: dir.Z*mu - a*sinMu*cosPhi,
		}
	} else {
		// dir is (anti)parallel to z.
		sign := math.Copysign(1, dir.Z)
		out = r3.Vector{
			X: sign * sinMu * cosPhi,
			Y: sign * sinMu * sinPhi,
			Z: sign * mu,
		}
	}
	return out.Normalize()
}

// IsotropicDirection draws a unit vector uniformly from the sphere.
func IsotropicDirection(rng Rand) r3.Vector {
	mu := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - mu*mu)
	sinPhi, cosPhi := math.Sincos(phi)
	return r3.Vector{X: s * cosPhi, Y: s * sinPhi, Z: mu}
}

// ConeDirection draws a unit vector uniformly from the cone of half-angle
// spread around axis. Spreads of pi or more give isotropic directions.
func ConeDirection(axis r3.Vector, spread float64, rng Rand) r3.Vector {
	if spread >= math.Pi {
		return IsotropicDirection(rng)
	}
	mu := 1 - rng.Float64()*(1-math.Cos(spread))
	phi := 2 * math.Pi * rng.Float64()
	return RotateDirection(axis.Normalize(), mu, phi)
}
