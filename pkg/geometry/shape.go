package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Sphere is currently the only primitive; the unexported method keeps the set closed.
type Shape interface {
	// Hit reports the intersection with the smallest t strictly inside (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	isShape()
}
