package renderer

import (
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width            int           // Image width in pixels
	Height           int           // Image height in pixels
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of camera rays traced
	SamplesPerPixel  int           // Samples taken for every pixel
	MaxDepth         int           // Ray bounce limit
	Workers          int           // Size of the worker pool
	Seed             uint64        // Seed the per-pixel samplers were derived from
	Duration         time.Duration // Wall time from first submit to the barrier
	AverageLuminance float64       // Mean luminance of the linear framebuffer
}

// SamplesPerSecond returns the camera-ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Luminance returns the Rec. 709 relative luminance of a linear color
func Luminance(c core.Vec3) float64 {
	return 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z
}

// CalculateAverageLuminance returns the mean luminance of the framebuffer
func CalculateAverageLuminance(fb *Framebuffer) float64 {
	pixels := fb.Pixels()
	if len(pixels) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range pixels {
		total += Luminance(p)
	}
	return total / float64(len(pixels))
}
