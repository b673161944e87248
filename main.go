package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-orbit-raytracer/pkg/animation"
	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/output"
	"github.com/df07/go-orbit-raytracer/pkg/renderer"
	"github.com/df07/go-orbit-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	samples   int
	depth     int
	frames    int
	start     int
	end       int
	workers   int
	seed      uint64
	format    string
	gzip      bool
	outDir    string
	aperture  float64
	vfov      float64
	focus     float64
	help      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	defaults := output.DefaultConfig()
	fs := flag.NewFlagSet("orbit-raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneType, "scene", "random", "Scene type: 'random', 'default' or 'single'")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels; height follows the scene aspect ratio (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum ray bounce depth (0 = scene default)")
	fs.IntVar(&opts.frames, "frames", 0, "Frames per full orbit (0 = 180)")
	fs.IntVar(&opts.start, "start", 0, "First frame to render")
	fs.IntVar(&opts.end, "end", 0, "Frame to stop before (0 = last frame of the orbit)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Seed for reproducible frames (0 = random noise every run)")
	fs.StringVar(&opts.format, "format", string(defaults.Format), fmt.Sprintf("Output format: %v", output.Formats()))
	fs.BoolVar(&opts.gzip, "gzip", false, "Gzip each output file")
	fs.StringVar(&opts.outDir, "out", defaults.Dir, "Output directory")
	fs.Float64Var(&opts.aperture, "aperture", -1, "Lens aperture (negative = scene default, 0 = pinhole)")
	fs.Float64Var(&opts.vfov, "vfov", 0, "Vertical field of view in degrees (0 = scene default)")
	fs.Float64Var(&opts.focus, "focus", 0, "Focus distance (0 = scene default)")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.help {
		printHelp(fs)
	}
	return opts, nil
}

func printHelp(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Orbit Raytracer")
	fmt.Fprintln(out, "Usage: orbit-raytracer [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(out, "  %-8s - %s\n", info.Name, info.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available formats:")
	for _, format := range output.Formats() {
		fmt.Fprintf(out, "  %-8s - .%s\n", format, format.Extension())
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Frames are saved as <out>/frame_NNN.<ext>")
}

// cameraOverrides collects the camera flags that were set
func cameraOverrides(opts options) renderer.CameraConfig {
	override := renderer.CameraConfig{
		VFov:          opts.vfov,
		FocusDistance: opts.focus,
	}
	if opts.aperture > 0 {
		override.Aperture = opts.aperture
	}
	return override
}

// createScene builds the requested scene. With a seed the random layout is reproducible.
func createScene(opts options) (*scene.Scene, error) {
	var sampler core.Sampler
	if opts.seed != 0 {
		sampler = core.NewPCGSampler(opts.seed, 0)
	} else {
		sampler = core.NewRandomSampler(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}

	s, err := scene.NewScene(opts.sceneType, sampler, cameraOverrides(opts))
	if err != nil {
		return nil, err
	}
	// Zero fields never override, so a pinhole request is applied directly
	if opts.aperture == 0 {
		s.CameraConfig.Aperture = 0
	}
	return s, nil
}

// samplingConfig applies command line overrides to the scene's sampling settings
func samplingConfig(s *scene.Scene, opts options) renderer.SamplingConfig {
	override := renderer.SamplingConfig{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		NumWorkers:      opts.workers,
		Deterministic:   opts.seed != 0,
		Seed:            opts.seed,
	}
	if opts.width > 0 {
		override.Width = opts.width
		override.Height = max(1, int(float64(opts.width)/s.CameraConfig.AspectRatio))
	}
	base := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), s.SamplingConfig)
	return renderer.MergeSamplingConfig(base, override)
}

// orbit builds the camera path starting from the scene camera
func orbit(s *scene.Scene, opts options) animation.Orbit {
	return animation.OrbitFromCamera(s.CameraConfig, opts.frames)
}

func run(ctx context.Context, opts options, logger core.Logger) error {
	selectedScene, err := createScene(opts)
	if err != nil {
		return err
	}
	logger.Printf("Using %s scene (%d objects)...\n", selectedScene.Name, selectedScene.World.Len())

	config := samplingConfig(selectedScene, opts)
	if err := config.Validate(); err != nil {
		return err
	}
	path := orbit(selectedScene, opts)
	if err := path.Validate(); err != nil {
		return err
	}

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	sink, err := output.NewSink(output.Config{Dir: opts.outDir, Format: format, Gzip: opts.gzip})
	if err != nil {
		return err
	}

	end := opts.end
	if end == 0 {
		end = path.Frames
	}

	raytracer := renderer.NewRaytracer(selectedScene.World, config, logger)
	animator := animation.NewAnimator(raytracer, path, sink, logger)

	stats, err := animator.Run(ctx, opts.start, end)
	logger.Printf("Rendered %d frames (%d samples) in %v\n", stats.FramesRendered, stats.TotalSamples, stats.Elapsed)
	return err
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if opts.help {
		return
	}

	// Ctrl-C stops after the frame in progress is written
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting Orbit Raytracer...")
	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
