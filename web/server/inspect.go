package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	MaterialType string         `json:"materialType,omitempty"`
	GeometryType string         `json:"geometryType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	FrontFace    bool           `json:"frontFace"`
	Properties   map[string]any `json:"properties,omitempty"`
}

// InspectResult contains rich information about an object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord // Full hit record with material reference
	Shape     geometry.Shape      // The actual shape that was hit
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]any) {
	properties := make(map[string]any)

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of pixel (x, y), row 0 at the top,
// and reports the nearest shape it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	width := sceneObj.SamplingConfig.Width
	height := sceneObj.SamplingConfig.Height

	// Deterministic sampler for the lens; pixel centers need no jitter
	sampler := core.NewSeededSampler(0, 0)
	u := (float64(pixelX) + 0.5) / float64(width)
	v := (float64(height-1-pixelY) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(u, v, sampler)

	// Scan shapes directly so the hit shape is known, not just its hit record
	result := InspectResult{}
	closestSoFar := math.Inf(1)
	for _, shape := range sceneObj.Shapes.Shapes() {
		if hit, isHit := shape.Hit(ray, integrator.ShadowAcneEpsilon, closestSoFar); isHit {
			closestSoFar = hit.T
			result = InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}
	return result
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
	}

	sceneObj, err := sceneFor(req)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Unknown scene: "+req.Scene)
	}

	values := c.QueryParams()
	pixelX, err := parseIntParam(values, "x", -1, 0, sceneObj.SamplingConfig.Width-1)
	if err != nil || pixelX < 0 {
		return jsonError(c, http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := parseIntParam(values, "y", -1, 0, sceneObj.SamplingConfig.Height-1)
	if err != nil || pixelY < 0 {
		return jsonError(c, http.StatusBadRequest, "Invalid y coordinate")
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]any{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
