package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	Shapes         *geometry.ShapeList // Objects in the scene
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig
	TopColor       core.Vec3 // Sky color looking straight up
	BottomColor    core.Vec3 // Sky color looking straight down
}

// newScene builds the camera and fills in the default sky
func newScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) (*Scene, error) {
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	bg := integrator.DefaultBackground()
	s := &Scene{
		Camera:         camera,
		Shapes:         geometry.NewShapeList(),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
		TopColor:       bg.Top,
		BottomColor:    bg.Bottom,
	}
	s.SetImageWidth(samplingConfig.Width)
	return s, nil
}

// GetCamera returns the scene's camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the top and bottom colors of the sky gradient
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetShapes returns the scene aggregate
func (s *Scene) GetShapes() *geometry.ShapeList {
	return s.Shapes
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.Shapes.Len()
}

// SetImageWidth sets the output width and derives the height from the camera's aspect ratio
func (s *Scene) SetImageWidth(width int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = max(int(float64(width)/s.CameraConfig.AspectRatio), 1)
}
