package integrator

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ShadowAcneEpsilon is the minimum hit distance for secondary rays
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with one scattered ray per bounce
type PathTracingIntegrator struct {
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		background: background,
	}
}

// RayColor computes the color for a single ray.
// Recursion depth is bounded by depth; an exhausted budget returns black.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.background.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, sampler, depth-1))
}
