package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned by ByName for names that are not built in
var ErrUnknownScene = errors.New("scene: unknown scene")

// DefaultRandomSeed lays out the random spheres scene when none is given
const DefaultRandomSeed = 2020

var builtins = map[string]func() *Scene{
	"random": func() *Scene { return NewRandomSpheresScene(DefaultRandomSeed) },
	"three":  NewThreeSpheresScene,
	"single": NewSingleSphereScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName creates a fresh copy of a built-in scene
func ByName(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%q (available: %v): %w", name, Names(), ErrUnknownScene)
	}
	return build(), nil
}

// NewRandomSpheresScene creates a large ground sphere covered in a grid of small
// random spheres, with three large feature spheres in the middle
func NewRandomSpheresScene(seed uint64) *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	samplingConfig := renderer.DefaultSamplingConfig()
	samplingConfig.Width = 780

	s := mustScene(cameraConfig, samplingConfig)
	random := rand.New(rand.NewPCG(seed, 0))
	randomColor := func(lo, hi float64) core.Vec3 {
		return core.NewVec3(
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
		)
	}

	// Ground
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(0, -1000, 0), 1000,
		material.MustLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			// Keep clear of the metal feature sphere
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				mat = material.MustLambertian(randomColor(0, 1).MultiplyVec(randomColor(0, 1)))
			case chooseMat < 0.95:
				mat = material.MustMetal(randomColor(0.5, 1), 0.5*random.Float64())
			default:
				mat = material.MustDielectric(1.5)
			}
			s.Shapes.Add(geometry.MustSphere(center, 0.2, mat))
		}
	}

	s.Shapes.Add(geometry.MustSphere(core.NewVec3(0, 1, 0), 1.0, material.MustDielectric(1.5)))
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(-4, 1, 0), 1.0, material.MustLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(4, 1, 0), 1.0, material.MustMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return s
}

// NewThreeSpheresScene creates a diffuse, a metal and a hollow glass sphere on a yellow ground
func NewThreeSpheresScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:    core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
		Aperture:    0.0,
	}
	samplingConfig := renderer.DefaultSamplingConfig()

	s := mustScene(cameraConfig, samplingConfig)

	materialGround := material.MustLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.MustLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.MustDielectric(1.5)
	materialBubble := material.MustDielectric(1.0 / 1.5) // Air inside glass
	materialRight := material.MustMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	s.Shapes.Add(geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100, materialGround))
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter))
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass))
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(-1, 0, -1), 0.45, materialBubble))
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(1, 0, -1), 0.5, materialRight))

	return s
}

// NewSingleSphereScene creates one diffuse sphere in front of a pinhole camera at the origin
func NewSingleSphereScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2.0,
	}
	samplingConfig := renderer.DefaultSamplingConfig()

	s := mustScene(cameraConfig, samplingConfig)
	s.Shapes.Add(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5,
		material.MustLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	return s
}

func mustScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	s, err := newScene(cameraConfig, samplingConfig)
	if err != nil {
		panic(err)
	}
	return s
}
