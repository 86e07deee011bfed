package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
)

const (
	serviceName    = "SapphAI Chat Bot"
	serviceVersion = "1.0.0"
)

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type chatResponse struct {
	Response  string `json:"response"`
	IsNewUser bool   `json:"isNewUser"`
	Timestamp string `json:"timestamp"`
}

type filteredResponse struct {
	Response string `json:"response"`
	Filtered bool   `json:"filtered"`
}

func (s *Server) handleChat(c *echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":   "Invalid request",
			"message": "Message is required and must be a string",
		})
	}

	result := s.chat.Process(c.Request().Context(), req.UserID, req.Message)

	if result.Filtered {
		return c.JSON(http.StatusOK, filteredResponse{
			Response: result.Reply,
			Filtered: true,
		})
	}

	return c.JSON(http.StatusOK, chatResponse{
		Response:  result.Reply,
		IsNewUser: result.IsNewUser,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetMemory(c *echo.Context) error {
	userID := c.Param("userId")
	history := s.chat.History(userID)

	return c.JSON(http.StatusOK, map[string]any{
		"userId":      userID,
		"history":     history,
		"count":       len(history),
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleClearMemory(c *echo.Context) error {
	userID := c.Param("userId")
	s.chat.ClearHistory(userID)

	return c.JSON(http.StatusOK, map[string]string{
		"message":   "Conversation cleared",
		"userId":    userID,
		"clearedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAbout(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.chat.About())
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"service":     serviceName,
		"version":     serviceVersion,
		"environment": s.cfg.Server.Environment,
		"port":        s.cfg.Server.Port,
	})
}

func (s *Server) handleRoot(c *echo.Context) error {
	about := s.chat.About()
	return c.JSON(http.StatusOK, map[string]any{
		"service": serviceName,
		"version": serviceVersion,
		"status":  "operational",
		"creator": about.Creator,
		"mission": about.Mission,
		"endpoints": map[string]string{
			"chat":   "POST /api/chat",
			"about":  "GET /api/about",
			"health": "GET /health",
			"memory": "GET /api/memory/:userId",
		},
	})
}

func (s *Server) handleDocs(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"documentation": "SapphAI API Documentation",
		"endpoints": []map[string]any{
			{"method": "GET", "path": "/", "description": "Server information"},
			{"method": "GET", "path": "/health", "description": "Health check for backend servers"},
			{
				"method":      "POST",
				"path":        "/api/chat",
				"description": "Main chat endpoint",
				"request_body": map[string]string{
					"message": "string (required)",
					"userId":  "string (optional, default: 'anonymous')",
				},
			},
			{"method": "GET", "path": "/api/about", "description": "About the assistant"},
			{"method": "GET", "path": "/api/memory/:userId", "description": "Get conversation history"},
			{"method": "DELETE", "path": "/api/memory/:userId", "description": "Clear conversation history"},
		},
	})
}

var availableRoutes = []string{
	"/",
	"/health",
	"/api/chat",
	"/api/about",
	"/api/docs",
	"/api/memory/:userId",
}

// httpErrorHandler renders JSON errors: 404s list the available routes,
// and 500 detail is exposed only in development.
func (s *Server) httpErrorHandler(c *echo.Context, err error) {
	if resp, uerr := echo.UnwrapResponse(c.Response()); uerr == nil && resp.Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong"

	var sc echo.HTTPStatusCoder
	if errors.As(err, &sc) {
		code = sc.StatusCode()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Message != "" {
		message = he.Message
	}

	if code == http.StatusNotFound {
		_ = c.JSON(code, map[string]any{
			"error":           "Not found",
			"message":         "Route " + c.Request().URL.Path + " not found",
			"availableRoutes": availableRoutes,
		})
		return
	}

	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request().URL.Path, "error", err)
		if s.cfg.Server.Environment == "development" {
			message = err.Error()
		} else {
			message = "Something went wrong"
		}
	}

	_ = c.JSON(code, map[string]any{
		"error":     http.StatusText(code),
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
