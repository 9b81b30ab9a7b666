package server

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// Console keeps the most recent render log messages for /api/console
type Console struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	limit    int
}

// NewConsole creates a console that retains up to limit messages
func NewConsole(limit int) *Console {
	return &Console{limit: max(limit, 1)}
}

// Add appends a message, dropping the oldest once the limit is reached
func (c *Console) Add(msg ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	if over := len(c.messages) - c.limit; over > 0 {
		c.messages = append(c.messages[:0], c.messages[over:]...)
	}
}

// Recent returns the retained messages, oldest first
func (c *Console) Recent() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ConsoleMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// WebLogger implements core.Logger by writing to the server log and the web console
type WebLogger struct {
	renderID string
	console  *Console
	logger   *slog.Logger
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, console *Console, logger *slog.Logger) core.Logger {
	return &WebLogger{
		renderID: renderID,
		console:  console,
		logger:   logger,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if wl.logger != nil {
		wl.logger.Info(strings.TrimSpace(message), "render", wl.renderID)
	}

	if wl.console != nil {
		wl.console.Add(ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		})
	}
}
