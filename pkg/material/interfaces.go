package material

import (
	"errors"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

var (
	// ErrInvalidAlbedo is returned when an albedo has a NaN or infinite channel
	ErrInvalidAlbedo = errors.New("material: albedo must be finite")
	// ErrInvalidRefractiveIndex is returned for a non-positive or non-finite index of refraction
	ErrInvalidRefractiveIndex = errors.New("material: refractive index must be positive and finite")
)

// Material describes how a surface responds to an incoming ray.
//
// The set of materials is closed: Lambertian, Metal and Dielectric are the only
// implementations, which lets the integrator treat a Material as a sum type.
type Material interface {
	// Scatter returns the attenuation and outgoing ray, or false if the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	isMaterial()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, always facing the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Borrowed from the shape that was hit; valid while the scene is alive
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
