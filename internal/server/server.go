package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/vat-invoice/internal/export"
	"github.com/rezonia/vat-invoice/internal/itemsource"
	"github.com/rezonia/vat-invoice/internal/logging"
	"github.com/rezonia/vat-invoice/internal/model"
	"github.com/rezonia/vat-invoice/internal/processor"
)

// RequestTimeout bounds one generation request
const RequestTimeout = 30 * time.Second

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	Letterhead model.Letterhead
	Filename   string
	Verify     bool
	Logger     zerolog.Logger
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(config.Logger))

	pipeline := processor.NewPipeline(config.Letterhead,
		processor.WithLogger(config.Logger),
		processor.WithVerification(config.Verify),
	)

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices", s.handleGenerate)
		v1.POST("/invoices/compute", s.handleCompute)
		v1.POST("/validate", s.handleValidate)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	items, ok := s.readItems(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
	defer cancel()

	sink := &export.MemorySink{}
	result := s.pipeline.Generate(ctx, items, s.config.Filename, sink)
	if result.Error != nil {
		s.writeError(c, result)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Artifact.Name))
	c.Header("X-Invoice-Pages", fmt.Sprint(result.Artifact.Pages))
	c.Data(http.StatusOK, "application/pdf", sink.Bytes())
}

func (s *Server) handleCompute(c *gin.Context) {
	items, ok := s.readItems(c)
	if !ok {
		return
	}

	result := s.pipeline.Compute(c.Request.Context(), items)
	if result.Error != nil {
		s.writeError(c, result)
		return
	}

	c.JSON(http.StatusOK, NewComputeResponse(s.config.Letterhead.CurrencySymbol, result.Computed))
}

func (s *Server) handleValidate(c *gin.Context) {
	items, ok := s.readItems(c)
	if !ok {
		return
	}

	result := s.pipeline.Compute(c.Request.Context(), items)
	if result.Error != nil {
		var verr *model.ValidationError
		if !errors.As(result.Error, &verr) {
			s.writeError(c, result)
			return
		}
		c.JSON(http.StatusOK, ValidationResponse{
			Valid:      false,
			Items:      len(items),
			Violations: verr.Violations,
		})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid: true,
		Items: len(items),
	})
}

// readItems decodes the request body; on failure the response is already written
func (s *Server) readItems(c *gin.Context) ([]model.LineItem, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return nil, false
	}

	items, err := itemsource.DecodeJSON(body, s.config.Letterhead.DefaultVATRatePercent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return items, true
}

func (s *Server) writeError(c *gin.Context, result *processor.Result) {
	_ = c.Error(result.Error)

	resp := ErrorResponse{
		Error: result.Error.Error(),
		Stage: string(result.Stage),
	}

	var verr *model.ValidationError
	switch {
	case errors.As(result.Error, &verr):
		resp.Violations = verr.Violations
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(result.Error, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, resp)
	default:
		c.JSON(http.StatusInternalServerError, resp)
	}
}
