package core

import (
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns.
// A Sampler is not safe for concurrent use; each worker owns its own.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// PCGSampler is a RandomSampler backed by a PCG source that can be cheaply reseeded.
// The renderer reseeds it per pixel so that a pixel's samples depend only on
// (seed, pixel index) and not on which worker rendered it.
type PCGSampler struct {
	RandomSampler
	pcg *rand.PCG
}

// NewPCGSampler creates a sampler seeded with the given seed and stream
func NewPCGSampler(seed, stream uint64) *PCGSampler {
	pcg := rand.NewPCG(seed, stream)
	return &PCGSampler{
		RandomSampler: RandomSampler{random: rand.New(pcg)},
		pcg:           pcg,
	}
}

// Seed resets the underlying generator to the given seed and stream
func (p *PCGSampler) Seed(seed, stream uint64) {
	p.pcg.Seed(seed, stream)
}

// RandomRange returns a random float64 in [lo, hi)
func RandomRange(sampler Sampler, lo, hi float64) float64 {
	return lo + (hi-lo)*sampler.Get1D()
}

// RandomColor returns a color with each channel in [0, 1)
func RandomColor(sampler Sampler) Vec3 {
	return sampler.Get3D()
}

// RandomColorRange returns a color with each channel in [lo, hi)
func RandomColorRange(sampler Sampler, lo, hi float64) Vec3 {
	return NewVec3(
		RandomRange(sampler, lo, hi),
		RandomRange(sampler, lo, hi),
		RandomRange(sampler, lo, hi),
	)
}

// RandomInUnitSphere generates a random point strictly inside a unit sphere
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		s := sampler.Get3D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 2*s.Z-1)
		// Accept if inside unit sphere
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a random direction uniformly distributed on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	return RandomInUnitSphere(sampler).Normalize()
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
