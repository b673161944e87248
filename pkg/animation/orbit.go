package animation

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/renderer"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidOrbit is returned by Orbit.Validate
var ErrInvalidOrbit = errors.New("invalid orbit")

// Orbit moves the camera on a horizontal circle around LookAt, one full turn per animation
type Orbit struct {
	Radius        float64   // Horizontal distance from LookAt to the eye
	Height        float64   // Eye height (world y)
	StartAngle    float64   // Angle of frame 0 in radians, measured from +X towards +Z
	Frames        int       // Frames per full turn
	LookAt        core.Vec3 // Orbit center and camera target
	Up            core.Vec3
	VFov          float64
	AspectRatio   float64
	Aperture      float64
	FocusDistance float64
}

// DefaultOrbit returns the classic fly-around of the random sphere field
func DefaultOrbit() Orbit {
	return Orbit{
		Radius:        13.0,
		Height:        2.0,
		Frames:        180,
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
}

// OrbitFromCamera builds an orbit whose frame 0 reproduces the given camera.
// A non-positive frame count, zero Up, VFov or AspectRatio fall back to DefaultOrbit.
func OrbitFromCamera(config renderer.CameraConfig, frames int) Orbit {
	orbit := DefaultOrbit()

	offset := config.Center.Subtract(config.LookAt)
	orbit.Radius = math.Hypot(offset.X, offset.Z)
	orbit.Height = config.Center.Y
	orbit.StartAngle = math.Atan2(offset.Z, offset.X)
	orbit.LookAt = config.LookAt
	orbit.Aperture = config.Aperture
	orbit.FocusDistance = config.FocusDistance

	if frames > 0 {
		orbit.Frames = frames
	}
	if !config.Up.NearZero() {
		orbit.Up = config.Up
	}
	if config.VFov > 0 {
		orbit.VFov = config.VFov
	}
	if config.AspectRatio > 0 {
		orbit.AspectRatio = config.AspectRatio
	}
	return orbit
}

// Validate checks that every frame of the orbit yields a usable camera
func (o Orbit) Validate() error {
	if o.Frames <= 0 {
		return fmt.Errorf("%w: frame count %d must be positive", ErrInvalidOrbit, o.Frames)
	}
	if o.Radius <= 0 {
		return fmt.Errorf("%w: radius %g must be positive", ErrInvalidOrbit, o.Radius)
	}
	if o.VFov <= 0 || o.VFov >= 180 {
		return fmt.Errorf("%w: vertical field of view %g must be in (0, 180)", ErrInvalidOrbit, o.VFov)
	}
	if o.AspectRatio <= 0 {
		return fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidOrbit, o.AspectRatio)
	}
	if o.Aperture < 0 || o.FocusDistance < 0 {
		return fmt.Errorf("%w: aperture %g and focus distance %g must not be negative", ErrInvalidOrbit, o.Aperture, o.FocusDistance)
	}
	if o.Up.NearZero() {
		return fmt.Errorf("%w: up vector must not be zero", ErrInvalidOrbit)
	}
	return nil
}

// Angle returns the orbit angle of a frame in radians
func (o Orbit) Angle(frame int) float64 {
	return o.StartAngle + float64(frame)*2*math.Pi/float64(o.Frames)
}

// Position returns the eye point for a frame.
// The base point (Radius, Height, 0) is turned about the vertical axis through LookAt.
func (o Orbit) Position(frame int) core.Vec3 {
	// Rotate3DY turns +X towards -Z, so negate to sweep from +X towards +Z
	rotation := mgl64.Rotate3DY(-o.Angle(frame))
	p := rotation.Mul3x1(mgl64.Vec3{o.Radius, o.Height, 0})
	return core.NewVec3(o.LookAt.X+p.X(), p.Y(), o.LookAt.Z+p.Z())
}

// CameraConfig returns the camera configuration for a frame
func (o Orbit) CameraConfig(frame int) renderer.CameraConfig {
	return renderer.CameraConfig{
		Center:        o.Position(frame),
		LookAt:        o.LookAt,
		Up:            o.Up,
		VFov:          o.VFov,
		AspectRatio:   o.AspectRatio,
		Aperture:      o.Aperture,
		FocusDistance: o.FocusDistance,
	}
}
