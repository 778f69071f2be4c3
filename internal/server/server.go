package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/surfer-dev/surfer/internal/surf"
	"github.com/surfer-dev/surfer/internal/telemetry"
)

// TaskRunner is the slice of the pipeline the HTTP layer needs.
type TaskRunner interface {
	Run(ctx context.Context, task surf.Task) (surf.Report, error)
	RunTravelItinerary(ctx context.Context, destination, dates, budget string, interests []string) (surf.Report, error)
}

// Server is a thin HTTP boundary over the research runner. Tasks run
// synchronously within the request.
type Server struct {
	echo   *echo.Echo
	runner TaskRunner
	tel    *telemetry.Telemetry
	logger *log.Logger
}

func New(runner TaskRunner, tel *telemetry.Telemetry) *Server {
	s := &Server{
		runner: runner,
		tel:    tel,
		logger: log.New(log.Writer(), "[HTTP] ", log.LstdFlags),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		s.logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(tel.Handler()))
	e.GET("/v1/costs", s.costs)
	e.POST("/v1/tasks", s.runTask)
	e.POST("/v1/travel/itinerary", s.runItinerary)

	s.echo = e
	return s
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP makes the server usable as a plain handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

type taskRequest struct {
	Description         string `json:"description"`
	Type                string `json:"type"`
	Query               string `json:"query"`
	AdditionalContext   string `json:"additional_context"`
	VisualUnderstanding *bool  `json:"visual_understanding"` // defaults to true when omitted
	Depth               int    `json:"depth"`
}

func (s *Server) runTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}

	visual := true
	if req.VisualUnderstanding != nil {
		visual = *req.VisualUnderstanding
	}
	report, err := s.runner.Run(c.Request().Context(), surf.Task{
		Description:         req.Description,
		Type:                req.Type,
		Query:               req.Query,
		AdditionalContext:   req.AdditionalContext,
		VisualUnderstanding: visual,
		Depth:               req.Depth,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

type itineraryRequest struct {
	Destination string   `json:"destination"`
	Dates       string   `json:"dates"`
	Budget      string   `json:"budget"`
	Interests   []string `json:"interests"`
}

func (s *Server) runItinerary(c echo.Context) error {
	var req itineraryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Destination == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "destination is required")
	}

	report, err := s.runner.RunTravelItinerary(c.Request().Context(), req.Destination, req.Dates, req.Budget, req.Interests)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) costs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tel.Costs())
}
