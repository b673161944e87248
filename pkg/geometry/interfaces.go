package geometry

import (
	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/material"
)

// Hittable interface for objects that can be hit by rays.
// Implementations are read-only after construction and safe for concurrent use.
type Hittable interface {
	// Hit returns the nearest intersection with parameter strictly inside (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
