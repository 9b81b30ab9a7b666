package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const defaultScene = "three"

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string        // Built-in scene name
	Width           int           // Image width, height follows the scene's aspect ratio
	SamplesPerPixel int           // Samples per pixel
	MaxDepth        int           // Maximum ray bounce depth
	Seed            uint64        // 0 picks a time-based seed
	Format          output.Format // Encoding of the response body
}

// parseRenderRequest parses and validates query parameters
func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	values := c.QueryParams()
	req := &RenderRequest{Scene: defaultScene, Format: output.FormatPNG}

	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "spp", 10, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 50, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Seed, err = parseUintParam(values, "seed", 0); err != nil {
		return nil, err
	}
	if name := values.Get("format"); name != "" {
		if req.Format, err = output.ParseFormat(name); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// sceneFor builds the requested built-in scene sized for the request
func sceneFor(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.ByName(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.SetImageWidth(req.Width)
	sceneObj.SamplingConfig.SamplesPerPixel = req.SamplesPerPixel
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	sceneObj.SamplingConfig.Seed = req.Seed
	return sceneObj, nil
}

// handleRender renders a scene synchronously and returns the encoded image
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	sceneObj, err := sceneFor(req)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Unknown scene: "+req.Scene)
	}

	config := sceneObj.SamplingConfig
	if samples := config.Width * config.Height * config.SamplesPerPixel; samples > maxPixelSamples {
		return jsonError(c, http.StatusBadRequest, fmt.Sprintf(
			"Render too large: %dx%d at %d spp is %d samples, limit is %d",
			config.Width, config.Height, config.SamplesPerPixel, samples, maxPixelSamples))
	}

	renderID := fmt.Sprintf("render-%d", s.renderID.Add(1))
	logger := NewWebLogger(renderID, s.console, s.logger)

	s.renderMu.Lock()
	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.SamplingConfig, s.pool, logger)
	fb, stats, err := raytracer.Render()
	s.renderMu.Unlock()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Render error: "+err.Error())
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, fb, req.Format); err != nil {
		return jsonError(c, http.StatusInternalServerError, err.Error())
	}

	h := c.Response().Header()
	h.Set("X-Render-Id", renderID)
	h.Set("X-Render-Seed", strconv.FormatUint(stats.Seed, 10))
	h.Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	return c.Blob(http.StatusOK, req.Format.ContentType(), buf.Bytes())
}
