package animation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/renderer"
)

// ErrInvalidRange is returned when the requested frames fall outside the orbit
var ErrInvalidRange = errors.New("invalid frame range")

// FrameWriter persists a rendered frame and reports where it went
type FrameWriter interface {
	WriteFrame(index int, frame *renderer.Frame) (string, error)
}

// AnimationStats summarizes a Run
type AnimationStats struct {
	FramesRendered int
	TotalSamples   int
	Elapsed        time.Duration
}

// Animator renders the frames of an orbit one after another
type Animator struct {
	raytracer *renderer.Raytracer
	orbit     Orbit
	writer    FrameWriter
	logger    core.Logger
}

// NewAnimator creates an animator that renders with raytracer and hands frames to writer
func NewAnimator(raytracer *renderer.Raytracer, orbit Orbit, writer FrameWriter, logger core.Logger) *Animator {
	return &Animator{
		raytracer: raytracer,
		orbit:     orbit,
		writer:    writer,
		logger:    logger,
	}
}

// Run renders frames [start, end) in order. The context is checked between frames;
// a frame that has started always finishes and is written.
func (a *Animator) Run(ctx context.Context, start, end int) (AnimationStats, error) {
	if err := a.orbit.Validate(); err != nil {
		return AnimationStats{}, err
	}
	if start < 0 || end > a.orbit.Frames || start > end {
		return AnimationStats{}, fmt.Errorf("%w: [%d, %d) with %d frames", ErrInvalidRange, start, end, a.orbit.Frames)
	}

	runStart := time.Now()
	var total AnimationStats
	for frame := start; frame < end; frame++ {
		if err := ctx.Err(); err != nil {
			a.logger.Printf("Stopping before frame %d: %v\n", frame, err)
			total.Elapsed = time.Since(runStart)
			return total, err
		}

		a.logger.Printf("Frame %d started\n", frame)
		camera := renderer.NewCamera(a.orbit.CameraConfig(frame))
		image, stats := a.raytracer.RenderFrame(frame, camera)

		path, err := a.writer.WriteFrame(frame, image)
		if err != nil {
			total.Elapsed = time.Since(runStart)
			return total, fmt.Errorf("frame %d: %w", frame, err)
		}

		total.FramesRendered++
		total.TotalSamples += stats.TotalSamples
		a.logger.Printf("Frame %d completed in %v (%.1f samples/pixel) -> %s\n",
			frame, stats.Elapsed, stats.AverageSamples, path)
	}

	total.Elapsed = time.Since(runStart)
	return total, nil
}
