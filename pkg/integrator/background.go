package integrator

import "github.com/df07/go-sphere-raytracer/pkg/core"

// Background is the procedural sky seen by rays that escape the scene
type Background struct {
	Top    core.Vec3 // Color looking straight up
	Bottom core.Vec3 // Color looking straight down
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color for the ray's direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return b.Bottom.Lerp(b.Top, t)
}
