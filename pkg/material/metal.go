package material

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) (*Metal, error) {
	if !albedo.IsFinite() {
		return nil, fmt.Errorf("metal albedo %v: %w", albedo, ErrInvalidAlbedo)
	}
	// Clamp fuzzness to valid range; NaN collapses to a perfect mirror
	if !(fuzzness > 0.0) {
		fuzzness = 0.0
	}
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}, nil
}

// MustMetal is like NewMetal but panics on invalid input
func MustMetal(albedo core.Vec3, fuzzness float64) *Metal {
	m, err := NewMetal(albedo, fuzzness)
	if err != nil {
		panic(err)
	}
	return m
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Calculate perfect reflection direction
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzzness > 0 {
		reflected = reflected.Add(core.SampleInUnitSphere(sampler).Multiply(m.Fuzzness))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// A direction pointing into the surface is absorbed
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scatters
}

func (m *Metal) isMaterial() {}
