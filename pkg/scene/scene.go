package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/geometry"
	"github.com/df07/go-orbit-raytracer/pkg/material"
	"github.com/df07/go-orbit-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene
	CameraConfig   renderer.CameraConfig  // Camera for frame 0; the orbit starts here
	SamplingConfig renderer.SamplingConfig
}

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
}

type sceneBuilder struct {
	info  SceneInfo
	build func(sampler core.Sampler, cameraOverrides ...renderer.CameraConfig) *Scene
}

var builders = map[string]sceneBuilder{
	"random": {
		info:  SceneInfo{Name: "random", Description: "Ground plane of small random spheres around three large ones"},
		build: NewRandomScene,
	},
	"default": {
		info:  SceneInfo{Name: "default", Description: "Diffuse, hollow glass and metal spheres on a ground sphere"},
		build: func(_ core.Sampler, cameraOverrides ...renderer.CameraConfig) *Scene {
			return NewDefaultScene(cameraOverrides...)
		},
	},
	"single": {
		info:  SceneInfo{Name: "single", Description: "One diffuse sphere in front of the camera"},
		build: func(_ core.Sampler, cameraOverrides ...renderer.CameraConfig) *Scene {
			return NewSingleSphereScene(cameraOverrides...)
		},
	},
}

// NewScene builds the named scene. Scenes with random placement draw from sampler.
// Non-zero fields of the first camera override replace the scene's camera settings.
func NewScene(name string, sampler core.Sampler, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	builder, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	s := builder.build(sampler, cameraOverrides...)
	s.Name = name
	return s, nil
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns the built-in scenes sorted by name
func ListScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builders))
	for _, name := range Names() {
		infos = append(infos, builders[name].info)
	}
	return infos
}

// applyCameraOverrides merges the first override, if any, into the scene camera
func applyCameraOverrides(config renderer.CameraConfig, cameraOverrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(cameraOverrides) > 0 {
		return renderer.MergeCameraConfig(config, cameraOverrides[0])
	}
	return config
}

// NewGroundSphere creates a huge sphere whose top touches y = level, standing in for a ground plane
func NewGroundSphere(level float64, mat material.Material) *geometry.Sphere {
	const radius = 1000.0
	return geometry.NewSphere(core.NewVec3(0, level-radius, 0), radius, mat)
}
