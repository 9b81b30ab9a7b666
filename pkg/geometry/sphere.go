package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

var (
	// ErrInvalidRadius is returned for a zero, negative or non-finite radius
	ErrInvalidRadius = errors.New("geometry: sphere radius must be positive and finite")
	// ErrInvalidCenter is returned when a sphere center has a NaN or infinite component
	ErrInvalidCenter = errors.New("geometry: sphere center must be finite")
	// ErrNilMaterial is returned when a shape is built without a material
	ErrNilMaterial = errors.New("geometry: shape requires a material")
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere, rejecting geometry that would produce NaN/Inf hits
func NewSphere(center core.Vec3, radius float64, mat material.Material) (*Sphere, error) {
	if !center.IsFinite() {
		return nil, fmt.Errorf("sphere center %v: %w", center, ErrInvalidCenter)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidRadius)
	}
	if mat == nil {
		return nil, ErrNilMaterial
	}
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}, nil
}

// MustSphere is like NewSphere but panics on invalid input
func MustSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	s, err := NewSphere(center, radius, mat)
	if err != nil {
		panic(err)
	}
	return s
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c

	// Tangent rays count as a miss
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

func (s *Sphere) isShape() {}
