package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ErrUnknownMaterial is returned for a material type other than lambertian, metal or dielectric
var ErrUnknownMaterial = errors.New("scene: unknown material type")

// Vec is a JSON triple, written as [x, y, z]
type Vec [3]float64

func (v Vec) toVec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// Description is the JSON form of a scene
type Description struct {
	Camera     CameraDescription      `json:"camera"`
	Sampling   SamplingDescription    `json:"sampling"`
	Background *BackgroundDescription `json:"background,omitempty"`
	Spheres    []SphereDescription    `json:"spheres"`
}

// CameraDescription mirrors renderer.CameraConfig
type CameraDescription struct {
	LookFrom      Vec     `json:"lookFrom"`
	LookAt        Vec     `json:"lookAt"`
	Up            *Vec    `json:"up,omitempty"` // Defaults to +Y
	VFov          float64 `json:"vfov"`
	AspectRatio   float64 `json:"aspectRatio"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"` // 0 focuses on lookAt
}

// SamplingDescription holds optional render settings; zero fields keep the defaults
type SamplingDescription struct {
	Width           int    `json:"width,omitempty"`
	SamplesPerPixel int    `json:"samplesPerPixel,omitempty"`
	MaxDepth        int    `json:"maxDepth,omitempty"`
	Seed            uint64 `json:"seed,omitempty"`
}

// BackgroundDescription overrides the sky gradient
type BackgroundDescription struct {
	Top    Vec `json:"top"`
	Bottom Vec `json:"bottom"`
}

// SphereDescription is one sphere and its material
type SphereDescription struct {
	Center   Vec                 `json:"center"`
	Radius   float64             `json:"radius"`
	Material MaterialDescription `json:"material"`
}

// MaterialDescription selects a material by Type; only that type's fields are read
type MaterialDescription struct {
	Type            string  `json:"type"` // lambertian, metal or dielectric
	Albedo          Vec     `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

// Load reads a scene description from a JSON file and builds it
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	desc, err := Decode(f)
	if err != nil {
		return nil, err
	}
	s, err := desc.Build()
	if err != nil {
		return nil, fmt.Errorf("build scene %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a scene description, rejecting unknown fields
func Decode(r io.Reader) (*Description, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var desc Description
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &desc, nil
}

// Build validates the description and constructs the scene
func (d *Description) Build() (*Scene, error) {
	up := Vec{0, 1, 0}
	if d.Camera.Up != nil {
		up = *d.Camera.Up
	}
	cameraConfig := renderer.CameraConfig{
		LookFrom:      d.Camera.LookFrom.toVec3(),
		LookAt:        d.Camera.LookAt.toVec3(),
		Up:            up.toVec3(),
		VFov:          d.Camera.VFov,
		AspectRatio:   d.Camera.AspectRatio,
		Aperture:      d.Camera.Aperture,
		FocusDistance: d.Camera.FocusDistance,
	}

	samplingConfig := renderer.DefaultSamplingConfig()
	if d.Sampling.Width > 0 {
		samplingConfig.Width = d.Sampling.Width
	}
	if d.Sampling.SamplesPerPixel > 0 {
		samplingConfig.SamplesPerPixel = d.Sampling.SamplesPerPixel
	}
	if d.Sampling.MaxDepth > 0 {
		samplingConfig.MaxDepth = d.Sampling.MaxDepth
	}
	samplingConfig.Seed = d.Sampling.Seed

	s, err := newScene(cameraConfig, samplingConfig)
	if err != nil {
		return nil, err
	}

	if d.Background != nil {
		s.TopColor = d.Background.Top.toVec3()
		s.BottomColor = d.Background.Bottom.toVec3()
		if !s.TopColor.IsFinite() || !s.BottomColor.IsFinite() {
			return nil, fmt.Errorf("background colors must be finite")
		}
	}

	for i, sd := range d.Spheres {
		mat, err := sd.Material.build()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		sphere, err := geometry.NewSphere(sd.Center.toVec3(), sd.Radius, mat)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Shapes.Add(sphere)
	}

	return s, nil
}

func (m MaterialDescription) build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.toVec3())
	case "metal":
		return material.NewMetal(m.Albedo.toVec3(), m.Fuzz)
	case "dielectric":
		return material.NewDielectric(m.RefractiveIndex)
	default:
		return nil, fmt.Errorf("%q: %w", m.Type, ErrUnknownMaterial)
	}
}
