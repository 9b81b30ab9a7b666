package renderer

import (
	"sync"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Framebuffer holds linear pixel colors indexed by (x, y), row 0 at the top of the image.
// All access is serialised by one mutex so jobs may write concurrently.
type Framebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	pixels []core.Vec3
	writes []int // Per-pixel write counts
}

// NewFramebuffer creates a black framebuffer of the given size
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
		writes: make([]int, width*height),
	}
}

// Width returns the framebuffer width in pixels
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the framebuffer height in pixels
func (fb *Framebuffer) Height() int { return fb.height }

// Set stores the color for pixel (x, y)
func (fb *Framebuffer) Set(x, y int, color core.Vec3) {
	i := fb.index(x, y)

	fb.mu.Lock()
	fb.pixels[i] = color
	fb.writes[i]++
	fb.mu.Unlock()
}

// At returns the color stored for pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	i := fb.index(x, y)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.pixels[i]
}

// WriteCount returns how many times pixel (x, y) has been written
func (fb *Framebuffer) WriteCount(x, y int) int {
	i := fb.index(x, y)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.writes[i]
}

// Pixels returns a copy of the pixel data in row-major order, top row first
func (fb *Framebuffer) Pixels() []core.Vec3 {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	out := make([]core.Vec3, len(fb.pixels))
	copy(out, fb.pixels)
	return out
}

func (fb *Framebuffer) index(x, y int) int {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		panic("renderer: framebuffer coordinates out of range")
	}
	return y*fb.width + x
}
