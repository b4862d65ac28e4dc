package noise

import "math"

// Integer lattice hashing shared by the cell-based generators. The
// multipliers are coprime primes so neighbouring lattice points decorrelate.
const (
	xNoiseGen    int32 = 1619
	yNoiseGen    int32 = 31337
	zNoiseGen    int32 = 6971
	seedNoiseGen int32 = 1013
)

// intValueNoise returns a pseudo-random value in [0, 2^31) for a lattice
// point. Arithmetic wraps on int32 overflow.
func intValueNoise(x, y, z, seed int32) int32 {
	n := (xNoiseGen*x + yNoiseGen*y + zNoiseGen*z + seedNoiseGen*seed) & 0x7fffffff
	n = (n >> 13) ^ n
	return (n*(n*n*60493+19990303) + 1376312589) & 0x7fffffff
}

// valueNoise maps intValueNoise into [-1, 1].
func valueNoise(x, y, z, seed int32) float64 {
	return 1.0 - float64(intValueNoise(x, y, z, seed))/1073741824.0
}

// floorInt32 floors v and converts it to a lattice coordinate.
func floorInt32(v float64) int32 {
	return int32(math.Floor(v))
}

// sCurve3 is the cubic ease curve 3t^2 - 2t^3.
func sCurve3(t float64) float64 {
	return t * t * (3.0 - 2.0*t)
}

func lerp(a, b, t float64) float64 {
	return (1.0-t)*a + t*b
}
