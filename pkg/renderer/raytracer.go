package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned when a render is requested with unusable settings
var ErrInvalidConfig = errors.New("renderer: invalid sampling configuration")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels
	SamplesPerPixel int    // Number of rays per pixel
	MaxDepth        int    // Maximum ray bounce depth
	Seed            uint64 // Base seed for per-pixel samplers, 0 picks one from the clock
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate reports whether the configuration can drive a render
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d: %w", c.SamplesPerPixel, ErrInvalidConfig)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth %d: %w", c.MaxDepth, ErrInvalidConfig)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetShapes() *geometry.ShapeList
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	config     SamplingConfig
	integrator integrator.Integrator
	pool       *WorkerPool
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. A nil pool makes Render start and stop its own.
func NewRaytracer(scene Scene, config SamplingConfig, pool *WorkerPool, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger()
	}
	top, bottom := scene.GetBackgroundColors()
	return &Raytracer{
		scene:      scene,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(integrator.Background{Top: top, Bottom: bottom}),
		pool:       pool,
		logger:     logger,
	}
}

// SamplePixel averages SamplesPerPixel jittered camera rays through pixel (x, y).
// y counts rows from the top of the image.
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler) core.Vec3 {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetShapes()

	// Flip to viewport rows, which count up from the bottom edge
	j := rt.config.Height - 1 - y

	colorAccum := core.Vec3{}
	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		u := (float64(x) + sampler.Get1D()) / float64(rt.config.Width)
		v := (float64(j) + sampler.Get1D()) / float64(rt.config.Height)

		ray := camera.GetRay(u, v, sampler)
		colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, world, sampler, rt.config.MaxDepth))
	}

	return colorAccum.Divide(float64(rt.config.SamplesPerPixel))
}

// Render traces every pixel as its own pool job and waits for all of them.
// The returned framebuffer holds linear, un-gamma-corrected colors.
func (rt *Raytracer) Render() (*Framebuffer, RenderStats, error) {
	config := rt.config
	if err := config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if rt.scene.GetCamera() == nil || rt.scene.GetShapes() == nil {
		return nil, RenderStats{}, fmt.Errorf("scene has no camera or shapes: %w", ErrInvalidConfig)
	}

	pool := rt.pool
	if pool == nil {
		pool = NewWorkerPool(0, rt.logger)
		defer pool.Shutdown()
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rt.logger.Printf("Rendering %dx%d at %d spp, depth %d, seed %d\n",
		config.Width, config.Height, config.SamplesPerPixel, config.MaxDepth, seed)

	fb := NewFramebuffer(config.Width, config.Height)
	start := time.Now()

	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			pixelIndex := uint64(y*config.Width + x)
			pool.Submit(func() {
				// Each pixel owns its sampler, so results do not depend on scheduling
				sampler := core.NewSeededSampler(seed, pixelIndex)
				fb.Set(x, y, rt.SamplePixel(x, y, sampler))
			})
		}
	}
	pool.WaitUntilDone()

	stats := RenderStats{
		Width:           config.Width,
		Height:          config.Height,
		TotalPixels:     config.Width * config.Height,
		TotalSamples:    config.Width * config.Height * config.SamplesPerPixel,
		SamplesPerPixel: config.SamplesPerPixel,
		MaxDepth:        config.MaxDepth,
		Workers:         pool.NumWorkers(),
		Seed:            seed,
		Duration:        time.Since(start),
	}
	stats.AverageLuminance = CalculateAverageLuminance(fb)

	rt.logger.Printf("Render completed in %v (%.0f samples/s)\n", stats.Duration, stats.SamplesPerSecond())
	return fb, stats, nil
}
