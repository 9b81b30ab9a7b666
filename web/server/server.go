package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Request parameter limits. A render holds the shared pool until it
// finishes, so maxPixelSamples caps width*height*spp for one request.
const (
	minWidth        = 16
	maxWidth        = 2000
	maxSamples      = 1000
	maxDepth        = 100
	maxPixelSamples = 50_000_000
)

// Server handles web requests for the raytracer
type Server struct {
	port    int
	echo    *echo.Echo
	pool    *renderer.WorkerPool
	logger  *slog.Logger
	console *Console

	// One render at a time: every render waits on the shared pool's barrier
	renderMu sync.Mutex
	renderID atomic.Int64
}

// NewServer creates a new web server that renders on pool
func NewServer(port int, pool *renderer.WorkerPool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		port:    port,
		echo:    echo.New(),
		pool:    pool,
		logger:  logger,
		console: NewConsole(200),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.Recover())
	s.echo.Use(corsMiddleware)

	// API endpoints
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/scene-config", s.handleSceneConfig)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)
	s.echo.GET("/api/console", s.handleConsole)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("Starting web server", "url", "http://localhost"+addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// jsonError writes {"error": message} with the given status
func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"workers": s.pool.NumWorkers(),
	})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"scenes": scene.Names()})
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneName := c.QueryParam("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}

	sceneObj, err := scene.ByName(sceneName)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Unknown scene: "+sceneName)
	}

	config := sceneObj.SamplingConfig
	return c.JSON(http.StatusOK, map[string]any{
		"scene": sceneName,
		"defaults": map[string]any{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"aspectRatio":     sceneObj.CameraConfig.AspectRatio,
		},
		"limits": map[string]any{
			"width":        map[string]int{"min": minWidth, "max": maxWidth},
			"spp":          map[string]int{"min": 1, "max": maxSamples},
			"depth":        map[string]int{"min": 1, "max": maxDepth},
			"pixelSamples": map[string]int{"max": maxPixelSamples},
		},
		"formats": output.Formats,
	})
}

// handleConsole returns the most recent render log messages
func (s *Server) handleConsole(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]ConsoleMessage{"messages": s.console.Recent()})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseUintParam parses an unsigned integer parameter from URL query
func parseUintParam(values url.Values, key string, defaultValue uint64) (uint64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
