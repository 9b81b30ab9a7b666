package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	spp       int
	depth     int
	workers   int
	seed      uint64
	out       string
	logLevel  string
	help      bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	// Show help if requested
	if opts.help {
		printHelp(os.Stdout)
		return
	}

	logger, err := newLogger(opts.logLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts, logger); err != nil {
		logger.Error("render failed", "err", err)
		os.Exit(1)
	}
}

// newFlagSet registers every command line flag against opts
func newFlagSet(opts *options, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&opts.sceneType, "scene", "random", "Scene: "+strings.Join(scene.Names(), ", ")+", or a path to a .json scene")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default, height follows the aspect ratio)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Worker goroutines (0 = $"+renderer.WorkersEnvVar+" or CPU count)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 = time based)")
	fs.StringVar(&opts.out, "out", "", "Output file; extension selects ppm, png, bmp or tiff (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	return fs
}

// parseFlags parses command line arguments into options
func parseFlags(args []string, errOut io.Writer) (options, error) {
	var opts options
	if err := newFlagSet(&opts, errOut).Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Sphere Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	var opts options
	newFlagSet(&opts, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	fmt.Fprintln(w, "  random - Ground sphere covered in small random spheres with three large ones")
	fmt.Fprintln(w, "  three  - Diffuse, metal and hollow glass spheres")
	fmt.Fprintln(w, "  single - One diffuse sphere in front of a pinhole camera")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

// newLogger creates a text slog logger at the named level
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// createScene returns a built-in scene by name, or loads a JSON scene file
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("scene name is empty")
	}
	if strings.HasSuffix(sceneType, ".json") {
		return scene.Load(sceneType)
	}
	return scene.ByName(sceneType)
}

// applyOverrides merges command line settings into the scene's sampling config
func applyOverrides(s *scene.Scene, opts options) {
	if opts.width > 0 {
		s.SetImageWidth(opts.width)
	}
	if opts.spp > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.spp
	}
	if opts.depth > 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	if opts.seed != 0 {
		s.SamplingConfig.Seed = opts.seed
	}
}

// outputPath returns the requested path, or a timestamped file under output/<scene>
func outputPath(opts options, now time.Time) string {
	if opts.out != "" {
		return opts.out
	}
	name := strings.TrimSuffix(filepath.Base(opts.sceneType), filepath.Ext(opts.sceneType))
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func run(opts options, logger *slog.Logger) error {
	logger.Info("Starting Sphere Raytracer...")

	selectedScene, err := createScene(opts.sceneType)
	if err != nil {
		return err
	}
	applyOverrides(selectedScene, opts)

	filename := outputPath(opts, time.Now())
	format, err := output.FormatFromPath(filename)
	if err != nil {
		return err
	}

	if info, err := renderer.GetHostInfo(); err == nil {
		logger.Info("host", "info", info.String())
	} else {
		logger.Debug("host info unavailable", "err", err)
	}

	pool := renderer.NewWorkerPool(opts.workers, core.NewSlogLogger(logger))
	defer pool.Shutdown()

	logger.Info("scene loaded",
		"scene", opts.sceneType,
		"shapes", selectedScene.GetPrimitiveCount(),
		"width", selectedScene.SamplingConfig.Width,
		"height", selectedScene.SamplingConfig.Height)

	raytracer := renderer.NewRaytracer(selectedScene, selectedScene.SamplingConfig, pool, core.NewSlogLogger(logger))
	fb, stats, err := raytracer.Render()
	if err != nil {
		return err
	}

	logger.Info("render completed",
		"duration", stats.Duration,
		"samples", stats.TotalSamples,
		"workers", stats.Workers,
		"seed", stats.Seed,
		"avgLuminance", fmt.Sprintf("%.4f", stats.AverageLuminance))

	if err := saveImage(filename, fb, format); err != nil {
		return err
	}

	logger.Info("Render saved", "file", filename)
	return nil
}

// saveImage encodes fb into filename, creating its directory as needed
func saveImage(filename string, fb *renderer.Framebuffer, format output.Format) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := output.Encode(file, fb, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
