package integrator

import (
	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along ray, tracing at most depth bounces
	RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler, depth int) core.Vec3
}

// Background describes the sky gradient seen by rays that escape the scene
type Background struct {
	BottomColor core.Vec3 // Color for straight-down rays (t = 0)
	TopColor    core.Vec3 // Color for straight-up rays (t = 1)
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the gradient color for a ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return b.BottomColor.Lerp(b.TopColor, t)
}
