package material

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) (*Lambertian, error) {
	if !albedo.IsFinite() {
		return nil, fmt.Errorf("lambertian albedo %v: %w", albedo, ErrInvalidAlbedo)
	}
	return &Lambertian{Albedo: albedo}, nil
}

// MustLambertian is like NewLambertian but panics on invalid input.
// Intended for built-in scenes with constant parameters.
func MustLambertian(albedo core.Vec3) *Lambertian {
	l, err := NewLambertian(albedo)
	if err != nil {
		panic(err)
	}
	return l
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// normal + random unit vector gives a cosine-weighted direction
	scatterDirection := hit.Normal.Add(core.SampleUnitVector(sampler))

	// The random vector can cancel the normal almost exactly
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}

func (l *Lambertian) isMaterial() {}
