package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

func TestCreateScene(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "tiny.json")
	tiny := `{"camera": {"lookFrom": [0,0,1], "lookAt": [0,0,-1], "vfov": 60, "aspectRatio": 1},
	          "spheres": [{"center": [0,0,-1], "radius": 0.5, "material": {"type": "lambertian", "albedo": [0.5,0.5,0.5]}}]}`
	if err := os.WriteFile(jsonPath, []byte(tiny), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"random scene", "random", false},
		{"three scene", "three", false},
		{"single scene", "single", false},

		// JSON scenes
		{"json path", jsonPath, false},
		{"missing json path", filepath.Join(t.TempDir(), "nope.json"), true},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %T", tt.sceneType, scene)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.SamplingConfig.Width <= 0 || scene.SamplingConfig.Height <= 0 {
				t.Errorf("Scene image size should be positive, got %dx%d", scene.SamplingConfig.Width, scene.SamplingConfig.Height)
			}
			if scene.GetPrimitiveCount() == 0 {
				t.Errorf("Scene should have shapes")
			}
		})
	}
}

func TestParseFlagsAndOverrides(t *testing.T) {
	opts, err := parseFlags([]string{"-scene", "three", "-width", "160", "-spp", "4", "-depth", "7", "-seed", "9", "-workers", "2"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	s, err := createScene(opts.sceneType)
	if err != nil {
		t.Fatal(err)
	}
	applyOverrides(s, opts)

	cfg := s.SamplingConfig
	if cfg.Width != 160 || cfg.Height != 90 || cfg.SamplesPerPixel != 4 || cfg.MaxDepth != 7 || cfg.Seed != 9 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if opts.workers != 2 {
		t.Errorf("Expected 2 workers, got %d", opts.workers)
	}

	if _, err := parseFlags([]string{"-bogus"}, io.Discard); err == nil {
		t.Error("Expected an error for an unknown flag")
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name     string
		opts     options
		expected string
	}{
		{"explicit", options{sceneType: "random", out: "x.bmp"}, "x.bmp"},
		{"builtin default", options{sceneType: "three"}, filepath.Join("output", "three", "render_20240305_140709.png")},
		{"json default", options{sceneType: "scenes/demo.json"}, filepath.Join("output", "demo", "render_20240305_140709.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.opts, now); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("warn", &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Level filtering failed: %q", buf.String())
	}

	if _, err := newLogger("loud", &buf); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

func TestRunWritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "render", "single.ppm")
	opts := options{sceneType: "single", width: 16, spp: 2, depth: 3, workers: 2, seed: 1, out: out}

	if err := run(opts, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "P3\n16 8\n255\n") {
		t.Errorf("Unexpected PPM header: %q", string(data[:min(len(data), 20)]))
	}

	opts.out = filepath.Join(t.TempDir(), "render.gif")
	if err := run(opts, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("Expected an error for an unsupported output extension")
	}
}

func TestSaveImage(t *testing.T) {
	fb := renderer.NewFramebuffer(2, 1)
	fb.Set(0, 0, core.NewVec3(1, 1, 1))

	out := filepath.Join(t.TempDir(), "nested", "dir", "tiny.ppm")
	if err := saveImage(out, fb, output.FormatPPM); err != nil {
		t.Fatalf("saveImage failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	if string(data) != "P3\n2 1\n255\n255 255 255\n0 0 0\n" {
		t.Errorf("Unexpected file contents %q", string(data))
	}

	// Encoding failures are reported and the file handle is released
	bad := filepath.Join(t.TempDir(), "bad.gif")
	if err := saveImage(bad, fb, output.Format("gif")); !errors.Is(err, output.ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}

	// A regular file where a directory is needed fails cleanly
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := saveImage(filepath.Join(blocker, "x.png"), fb, output.FormatPNG); err == nil {
		t.Error("Expected an error when the output directory cannot be created")
	}
}
