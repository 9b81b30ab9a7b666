package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := MustDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.Ray{Origin: core.NewVec3(-1, 1, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasReflection := false
	hasRefraction := false

	for stream := uint64(0); stream < 2000 && (!hasReflection || !hasRefraction); stream++ {
		sampler := core.NewSeededSampler(42, stream)
		result, scattered := glass.Scatter(ray, hit, sampler)

		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}

		expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
		if result.Attenuation != expectedAttenuation {
			t.Fatalf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
		}

		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	if !hasReflection {
		t.Error("Expected Fresnel reflection in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := MustDielectric(1.5)

	// Ray going from glass to air at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false, // Exiting the material
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	expected := core.Reflect(rayDirection, hit.Normal)
	for i := 0; i < 10; i++ {
		// A sample of 0.999 would always pick refraction if refraction were possible
		sampler := fixedSampler{v1: 0.999}
		result, scattered := glass.Scatter(ray, hit, sampler)

		if !scattered {
			t.Error("Dielectric should always scatter")
		}
		if result.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
			t.Errorf("Expected total internal reflection %v, got %v", expected, result.Scattered.Direction)
		}
	}
}

func TestDielectricUnitIndexPassesStraightThrough(t *testing.T) {
	air := MustDielectric(1.0)

	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"normal incidence", core.NewVec3(0, -1, 0)},
		{"oblique incidence", core.NewVec3(0.6, -0.8, 0)},
		{"steep oblique", core.NewVec3(0.2, -0.9, 0.3).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 1, 0), tt.direction)
			hit := HitRecord{
				Point:     core.NewVec3(0, 0, 0),
				Normal:    core.NewVec3(0, 1, 0),
				FrontFace: true,
				Material:  air,
			}
			reflected := core.Reflect(tt.direction, hit.Normal)

			for stream := uint64(0); stream < 200; stream++ {
				result, _ := air.Scatter(ray, hit, core.NewSeededSampler(9, stream))
				out := result.Scattered.Direction

				refractedStraight := out.Subtract(tt.direction).Length() < 1e-9
				if !refractedStraight && out.Subtract(reflected).Length() > 1e-9 {
					t.Fatalf("With η=1 the ray must pass straight through or take the Fresnel reflection, got %v", out)
				}
				// Reflectance is exactly r0 = 0 at normal incidence
				if tt.name == "normal incidence" && !refractedStraight {
					t.Fatalf("Normal incidence with η=1 should never reflect, got %v", out)
				}
			}
		})
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"unit ratio at normal incidence", 1.0, 1.0, 0.0},
		{"glass at normal incidence", 1.0, 1.0 / 1.5, 0.04},
		{"grazing is fully reflective", 0.0, 1.0 / 1.5, 1.0},
		{"unit ratio at grazing", 0.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Reflectance(%f, %f) = %f, expected %f", tt.cosine, tt.ratio, got, tt.expected)
			}
		})
	}
}

func TestNewDielectric_Validation(t *testing.T) {
	tests := []struct {
		name    string
		index   float64
		wantErr bool
	}{
		{"glass", 1.5, false},
		{"inverse glass bubble", 1.0 / 1.5, false},
		{"zero", 0, true},
		{"negative", -1.5, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDielectric(tt.index)
			if tt.wantErr != (err != nil) {
				t.Fatalf("NewDielectric(%f) error = %v, wantErr %t", tt.index, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidRefractiveIndex) {
				t.Errorf("Expected ErrInvalidRefractiveIndex, got %v", err)
			}
		})
	}
}
