package integrator

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// World answers nearest-hit queries; geometry.ShapeList implements it
type World interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray, following at most depth bounces
	RayColor(ray core.Ray, world World, sampler core.Sampler, depth int) core.Vec3
}
