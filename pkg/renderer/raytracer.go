package renderer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/geometry"
	"github.com/df07/go-orbit-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned by SamplingConfig.Validate
var ErrInvalidConfig = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	NumWorkers      int    // Number of parallel workers (0 = use CPU count)
	Deterministic   bool   // Use Seed instead of a fresh random seed per frame
	Seed            uint64 // Base seed for deterministic rendering
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           1200,
		Height:          800,
		SamplesPerPixel: 500,
		MaxDepth:        50,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.Deterministic {
		result.Deterministic = true
		result.Seed = override.Seed
	}
	return result
}

// Validate checks that the configuration can produce an image
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d must not be negative", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// Raytracer renders frames of a fixed world in parallel
type Raytracer struct {
	world      geometry.Hittable
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
}

// NewRaytracer creates a new raytracer using the path tracing integrator and sky gradient
func NewRaytracer(world geometry.Hittable, config SamplingConfig, logger core.Logger) *Raytracer {
	return &Raytracer{
		world:      world,
		integrator: integrator.NewPathTracingIntegrator(integrator.DefaultBackground()),
		config:     config,
		logger:     logger,
	}
}

// frameSeed derives the seed for one frame
func (rt *Raytracer) frameSeed(frameIndex int) uint64 {
	if !rt.config.Deterministic {
		return rand.Uint64()
	}
	// Mix in the frame index so frames of an animation differ
	return rt.config.Seed ^ (uint64(frameIndex) * 0x9E3779B97F4A7C15)
}

// RenderFrame renders one frame through the given camera.
// Rows are computed in parallel; the call returns once every row is written.
func (rt *Raytracer) RenderFrame(frameIndex int, camera *Camera) (*Frame, RenderStats) {
	start := time.Now()
	height := rt.config.Height
	frame := NewFrame(rt.config.Width, height)
	seed := rt.frameSeed(frameIndex)

	pool := NewWorkerPool(rt, height, rt.config.NumWorkers)
	pool.Start()

	rt.logger.Printf("Frame %d: rendering %dx%d, %d samples per pixel (using %d workers)...\n",
		frameIndex, rt.config.Width, height, rt.config.SamplesPerPixel, pool.GetNumWorkers())

	for row := 0; row < height; row++ {
		pool.SubmitTask(RowTask{Row: row, Camera: camera, Frame: frame, Seed: seed})
	}

	stats := RenderStats{MaxSamples: rt.config.SamplesPerPixel}
	step := max(1, height/10)
	for done := 1; done <= height; done++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Merge(result.Stats)
		if done%step == 0 && done < height {
			rt.logger.Printf("Frame %d: %d scanlines remaining\n", frameIndex, height-done)
		}
	}
	pool.Stop()

	stats.finalize()
	stats.Elapsed = time.Since(start)
	rt.logger.Printf("Frame %d: render completed in %v (%d samples)\n", frameIndex, stats.Elapsed, stats.TotalSamples)
	return frame, stats
}

// renderRow renders output row y (0 = top) into frame
func (rt *Raytracer) renderRow(y int, camera *Camera, frame *Frame, sampler *core.PCGSampler, seed uint64) RenderStats {
	width, height := rt.config.Width, rt.config.Height

	// Image-space row index counts up from the bottom
	j := height - 1 - y
	uScale := float64(max(1, width-1))
	vScale := float64(max(1, height-1))

	stats := RenderStats{}
	for i := 0; i < width; i++ {
		sampler.Seed(seed, uint64(y*width+i))

		var ps PixelStats
		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			// Jitter within the pixel footprint
			u := (float64(i) + sampler.Get1D()) / uScale
			v := (float64(j) + sampler.Get1D()) / vScale

			ray := camera.GetRay(u, v, sampler)
			ps.AddSample(rt.integrator.RayColor(ray, rt.world, sampler, rt.config.MaxDepth))
		}

		r, g, b := QuantizeColor(ps.GetColor())
		frame.SetRGB(i, y, r, g, b)

		stats.TotalPixels++
		stats.TotalSamples += ps.SampleCount
	}
	return stats
}
