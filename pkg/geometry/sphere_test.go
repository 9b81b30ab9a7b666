package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

var testMaterial = material.MustLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_PointingAwayNeverHits(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial)
	sampler := core.NewSeededSampler(11, 0)

	for i := 0; i < 2000; i++ {
		// Random origin outside the sphere
		origin := sphere.Center.Add(core.SampleUnitVector(sampler).Multiply(0.5 + 0.01 + 5*sampler.Get1D()))
		outward := origin.Subtract(sphere.Center)

		// Random direction in the hemisphere facing away from the center
		dir := core.SampleUnitVector(sampler)
		if dir.Dot(outward) < 0 {
			dir = dir.Negate()
		}

		if hit, isHit := sphere.Hit(core.NewRay(origin, dir), 0.001, math.Inf(1)); isHit {
			t.Fatalf("Ray from %v along %v should miss, got hit at t=%f", origin, dir, hit.T)
		}
	}
}

func TestSphere_Hit_RootsSymmetricThroughCenter(t *testing.T) {
	center := core.NewVec3(1, -2, 3)
	radius := 1.5
	sphere := MustSphere(center, radius, testMaterial)
	sampler := core.NewSeededSampler(12, 0)

	for i := 0; i < 500; i++ {
		dir := core.SampleUnitVector(sampler)
		origin := center.Subtract(dir.Multiply(10))
		ray := core.NewRay(origin, dir)

		near, ok := sphere.Hit(ray, 0.001, math.Inf(1))
		if !ok {
			t.Fatalf("Ray through the center must hit")
		}
		far, ok := sphere.Hit(ray, near.T, math.Inf(1))
		if !ok {
			t.Fatalf("Ray through the center must exit the sphere")
		}

		// Center sits at t=10; both roots are one radius away from it
		if math.Abs((10-near.T)-(far.T-10)) > 1e-9 {
			t.Fatalf("Roots not symmetric about center: near=%f far=%f", near.T, far.T)
		}
		if math.Abs(far.T-near.T-2*radius) > 1e-9 {
			t.Fatalf("Roots should be a diameter apart: near=%f far=%f", near.T, far.T)
		}
		if !near.FrontFace || far.FrontFace {
			t.Fatalf("Expected entry on the front face and exit on the back face")
		}
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != testMaterial {
				t.Errorf("Hit record should reference the sphere's material")
			}
		})
	}
}

func TestSphere_Hit_TangentIsMiss(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, 1000.0); isHit {
		t.Errorf("A zero discriminant should be treated as a miss, got t=%f", hit.T)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := MustSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// The interval is open: a root exactly at tMax is rejected
	hit, isHit = sphere.Hit(ray, 0.001, 1.0)
	if isHit {
		t.Errorf("Expected root at tMax to be excluded, got t=%f", hit.T)
	}

	// Skipping the near root yields the far one
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit || math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root at t=3, got %v (hit=%t)", hit, isHit)
	}
}

func TestNewSphere_Validation(t *testing.T) {
	tests := []struct {
		name    string
		center  core.Vec3
		radius  float64
		mat     material.Material
		wantErr error
	}{
		{"valid", core.NewVec3(0, 0, 0), 1, testMaterial, nil},
		{"zero radius", core.NewVec3(0, 0, 0), 0, testMaterial, ErrInvalidRadius},
		{"negative radius", core.NewVec3(0, 0, 0), -0.45, testMaterial, ErrInvalidRadius},
		{"NaN radius", core.NewVec3(0, 0, 0), math.NaN(), testMaterial, ErrInvalidRadius},
		{"infinite radius", core.NewVec3(0, 0, 0), math.Inf(1), testMaterial, ErrInvalidRadius},
		{"NaN center", core.NewVec3(math.NaN(), 0, 0), 1, testMaterial, ErrInvalidCenter},
		{"nil material", core.NewVec3(0, 0, 0), 1, nil, ErrNilMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSphere(tt.center, tt.radius, tt.mat)
			if tt.wantErr == nil {
				if err != nil || s == nil {
					t.Fatalf("Expected valid sphere, got err %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if s != nil {
				t.Errorf("Expected nil sphere on error")
			}
		})
	}
}
