package scene

import (
	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/geometry"
	"github.com/df07/go-orbit-raytracer/pkg/material"
	"github.com/df07/go-orbit-raytracer/pkg/renderer"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}

	lambertianGreen := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.NewDielectric(1.5)

	world := geometry.NewHittableList(
		NewGroundSphere(0, lambertianGreen),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),

		// Hollow glass sphere with a blue sphere inside
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), -0.45, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.25, lambertianBlue),
	)

	return &Scene{
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}
}

// NewSingleSphereScene creates one diffuse sphere directly in front of the camera
func NewSingleSphereScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   2.0,
		VFov:          90.0,
		FocusDistance: 1.0,
	}
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 50,
		MaxDepth:        50,
	}

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))),
	)

	return &Scene{
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
	}
}
