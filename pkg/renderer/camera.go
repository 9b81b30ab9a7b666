package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

var (
	// ErrDegenerateBasis is returned when the view direction is zero or parallel to up
	ErrDegenerateBasis = errors.New("renderer: camera basis is degenerate")
	// ErrInvalidCamera is returned for out-of-range lens or projection parameters
	ErrInvalidCamera = errors.New("renderer: invalid camera configuration")
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	LookFrom      core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually 0,1,0)
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 for a pinhole camera
	FocusDistance float64   // Distance to the plane in focus, 0 to focus on LookAt
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera coordinate system
	lensRadius      float64
}

// NewCamera creates a thin-lens camera from the configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	theta := config.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2)
	halfWidth := config.AspectRatio * halfHeight

	// Orthonormal basis; w points backwards from the view direction
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.LookFrom.Subtract(config.LookAt).Length()
	}

	origin := config.LookFrom
	horizontal := u.Multiply(2 * halfWidth * focusDistance)
	vertical := v.Multiply(2 * halfHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(u.Multiply(halfWidth * focusDistance)).
		Subtract(v.Multiply(halfHeight * focusDistance)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}, nil
}

// MustCamera is like NewCamera but panics on an invalid configuration
func MustCamera(config CameraConfig) *Camera {
	c, err := NewCamera(config)
	if err != nil {
		panic(err)
	}
	return c
}

func (config CameraConfig) validate() error {
	for _, v := range []core.Vec3{config.LookFrom, config.LookAt, config.Up} {
		if !v.IsFinite() {
			return fmt.Errorf("camera vector %v: %w", v, ErrInvalidCamera)
		}
	}
	for _, f := range []float64{config.VFov, config.AspectRatio, config.Aperture, config.FocusDistance} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("camera parameter %v: %w", f, ErrInvalidCamera)
		}
	}

	view := config.LookFrom.Subtract(config.LookAt)
	if view.LengthSquared() == 0 {
		return fmt.Errorf("look-from equals look-at: %w", ErrDegenerateBasis)
	}
	if config.Up.Cross(view).NearZero() {
		return fmt.Errorf("up %v is parallel to the view direction: %w", config.Up, ErrDegenerateBasis)
	}

	if config.VFov <= 0 || config.VFov >= 180 {
		return fmt.Errorf("vertical fov %v must be in (0, 180): %w", config.VFov, ErrInvalidCamera)
	}
	if config.AspectRatio <= 0 {
		return fmt.Errorf("aspect ratio %v must be positive: %w", config.AspectRatio, ErrInvalidCamera)
	}
	if config.Aperture < 0 {
		return fmt.Errorf("aperture %v must not be negative: %w", config.Aperture, ErrInvalidCamera)
	}
	if config.FocusDistance < 0 {
		return fmt.Errorf("focus distance %v must not be negative: %w", config.FocusDistance, ErrInvalidCamera)
	}
	return nil
}

// GetRay generates a ray for viewport coordinates (s, t) where 0 <= s,t <= 1.
// t=0 is the bottom edge of the image.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	offset := core.Vec3{}
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// GetCameraForward returns the camera's forward direction (normalized)
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// LensRadius returns the radius of the thin lens
func (c *Camera) LensRadius() float64 {
	return c.lensRadius
}
