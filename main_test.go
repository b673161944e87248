package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-orbit-raytracer/pkg/animation"
	"github.com/df07/go-orbit-raytracer/pkg/core"
	"github.com/df07/go-orbit-raytracer/pkg/output"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

// Ensure testLogger implements core.Logger
var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"random scene", "random", false},
		{"default scene", "default", false},
		{"single scene", "single", false},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(options{sceneType: tt.sceneType, seed: 1, aperture: -1})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.SamplingConfig.Width <= 0 || scene.SamplingConfig.Height <= 0 {
				t.Errorf("Scene sampling size should be positive, got %dx%d",
					scene.SamplingConfig.Width, scene.SamplingConfig.Height)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-scene", "single", "-width", "64", "-seed", "9", "-format", "png", "-gzip"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.sceneType != "single" || opts.width != 64 || opts.seed != 9 || opts.format != "png" || !opts.gzip {
		t.Errorf("Flags not applied: %+v", opts)
	}
	if opts.frames != 0 || opts.aperture >= 0 || opts.outDir != "out" || opts.format != "png" {
		t.Errorf("Unexpected defaults: %+v", opts)
	}

	if _, err := parseFlags([]string{"-nonsense"}, &stderr); err == nil {
		t.Error("Expected an error for an unknown flag")
	}
}

func TestParseFlags_Help(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-help"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if !opts.help {
		t.Error("Expected help to be set")
	}
	for _, name := range []string{"random", "default", "single"} {
		if !strings.Contains(stderr.String(), name) {
			t.Errorf("Help output should list the %q scene", name)
		}
	}
	for _, format := range output.Formats() {
		if !strings.Contains(stderr.String(), string(format)) {
			t.Errorf("Help output should list the %q format", format)
		}
	}
}

func TestSamplingConfigOverrides(t *testing.T) {
	s, err := createScene(options{sceneType: "random", seed: 3, aperture: -1})
	if err != nil {
		t.Fatal(err)
	}

	config := samplingConfig(s, options{width: 300, samples: 8, seed: 3})
	if config.Width != 300 || config.Height != 200 {
		t.Errorf("Height should follow the 3:2 aspect ratio, got %dx%d", config.Width, config.Height)
	}
	if config.SamplesPerPixel != 8 || config.MaxDepth != 50 {
		t.Errorf("Unexpected sampling %d/%d", config.SamplesPerPixel, config.MaxDepth)
	}
	if !config.Deterministic || config.Seed != 3 {
		t.Errorf("Seed should make rendering deterministic: %+v", config)
	}

	config = samplingConfig(s, options{})
	if config != s.SamplingConfig {
		t.Errorf("No flags should keep the scene settings, got %+v", config)
	}
}

func TestOrbitFromRandomScene(t *testing.T) {
	opts := options{sceneType: "random", seed: 3, aperture: -1}
	s, err := createScene(opts)
	if err != nil {
		t.Fatal(err)
	}

	path := orbit(s, opts)
	if path != animation.DefaultOrbit() {
		t.Errorf("Random scene orbit should match the default orbit: %+v", path)
	}
}

func TestCameraFlags(t *testing.T) {
	tests := []struct {
		name             string
		opts             options
		expectedAperture float64
		expectedVFov     float64
		expectedFocus    float64
	}{
		{"scene defaults", options{aperture: -1}, 0.1, 20, 10},
		{"pinhole", options{aperture: 0}, 0, 20, 10},
		{"wide aperture", options{aperture: 0.5}, 0.5, 20, 10},
		{"field of view and focus", options{aperture: -1, vfov: 35, focus: 7}, 0.1, 35, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.sceneType = "random"
			tt.opts.seed = 3
			s, err := createScene(tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			path := orbit(s, tt.opts)
			if path.Aperture != tt.expectedAperture || path.VFov != tt.expectedVFov || path.FocusDistance != tt.expectedFocus {
				t.Errorf("Expected aperture %g, vfov %g, focus %g; got %+v",
					tt.expectedAperture, tt.expectedVFov, tt.expectedFocus, path)
			}
			// Camera flags never move the eye
			if path.Radius != 13 || path.Height != 2 {
				t.Errorf("Orbit geometry changed: %+v", path)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		sceneType: "single",
		width:     16,
		samples:   2,
		depth:     5,
		frames:    4,
		start:     1,
		end:       3,
		workers:   2,
		seed:      11,
		format:    string(output.FormatPPM),
		outDir:    dir,
		aperture:  -1,
	}

	if err := run(context.Background(), opts, &testLogger{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 || names[0] != "frame_001.ppm" || names[1] != "frame_002.ppm" {
		t.Fatalf("Unexpected output files %v", names)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frame_001.ppm"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "P3\n16 8\n255\n") {
		t.Errorf("Unexpected PPM header: %q", strings.SplitN(string(data), "\n", 4)[:3])
	}
	if lines := strings.Count(string(data), "\n"); lines != 3+16*8 {
		t.Errorf("Expected %d lines, got %d", 3+16*8, lines)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	opts := options{sceneType: "single", width: 8, samples: 1, frames: 2, format: "ppm", outDir: dir, aperture: -1}
	if err := run(ctx, opts, &testLogger{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("No frames should be written after cancellation, found %d", len(entries))
	}
}

func TestRun_InvalidFormat(t *testing.T) {
	opts := options{sceneType: "single", frames: 2, format: "gif", outDir: t.TempDir(), aperture: -1}
	if err := run(context.Background(), opts, &testLogger{}); !errors.Is(err, output.ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}
