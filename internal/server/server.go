package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/core"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/prompts"
)

// UsageReader exposes the usage log.
type UsageReader interface {
	ListUsage(ctx context.Context, flow string, limit int) ([]model.Usage, error)
	UsageTotals(ctx context.Context) ([]model.UsageTotals, error)
}

type Server struct {
	Service  *core.Service
	Prompts  *prompts.Store
	Gatherer prometheus.Gatherer
	// Usage serves the usage routes. They are not registered when nil.
	Usage UsageReader
	// Health reports whether the backing stores are reachable. Nil means healthy.
	Health func(ctx context.Context) error

	logger *zap.Logger
}

func NewServer(svc *core.Service, promptStore *prompts.Store, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Service:  svc,
		Prompts:  promptStore,
		Gatherer: gatherer,
		logger:   logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/minutes/verify", s.Verify)
	r.POST("/minutes/verify-parties", s.VerifyParties)
	r.POST("/profiles", s.SaveProfile)
	r.POST("/qualification", s.Qualify)

	r.GET("/prompts", s.ListPrompts)
	r.GET("/prompts/:key", s.GetPrompt)
	r.PUT("/prompts/:key", s.SetPrompt)
	r.DELETE("/prompts/:key", s.ResetPrompt)

	if s.Usage != nil {
		r.GET("/usage", s.ListUsage)
		r.GET("/usage/totals", s.UsageTotals)
	}

	r.GET("/healthz", s.Healthz)
	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) Verify(c *gin.Context) {
	var req model.ReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Service.Verify(c.Request.Context(), req)
	if err != nil {
		s.fail(c, "verify", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) VerifyParties(c *gin.Context) {
	var req model.PartiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Service.VerifyParties(c.Request.Context(), req)
	if err != nil {
		s.fail(c, "verify parties", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) SaveProfile(c *gin.Context) {
	var p model.ClientProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := s.Service.SaveProfile(c.Request.Context(), p); err != nil {
		s.fail(c, "save profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type QualificationRequest struct {
	Profile model.ClientProfile `json:"profile"`
}

func (s *Server) Qualify(c *gin.Context) {
	var req QualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	text, err := s.Service.Qualify(c.Request.Context(), req.Profile)
	if err != nil {
		s.fail(c, "qualify", err)
		return
	}
	c.JSON(http.StatusOK, model.Qualification{Qualificacao: text})
}

func (s *Server) ListPrompts(c *gin.Context) {
	entries := make([]prompts.Entry, 0, len(s.Prompts.Keys()))
	for _, key := range s.Prompts.Keys() {
		entry, err := s.Prompts.Lookup(c.Request.Context(), key)
		if err != nil {
			s.fail(c, "list prompts", err)
			return
		}
		entries = append(entries, entry)
	}
	c.JSON(http.StatusOK, gin.H{"prompts": entries})
}

func (s *Server) GetPrompt(c *gin.Context) {
	entry, err := s.Prompts.Lookup(c.Request.Context(), c.Param("key"))
	if err != nil {
		s.fail(c, "get prompt", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type SetPromptRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) SetPrompt(c *gin.Context) {
	var req SetPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	key := c.Param("key")
	if err := s.Prompts.Set(ctx, key, req.Text); err != nil {
		s.fail(c, "set prompt", err)
		return
	}
	s.GetPrompt(c)
}

func (s *Server) ResetPrompt(c *gin.Context) {
	if err := s.Prompts.Reset(c.Request.Context(), c.Param("key")); err != nil {
		s.fail(c, "reset prompt", err)
		return
	}
	s.GetPrompt(c)
}

type UsageQuery struct {
	Flow  string `form:"flow"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

func (s *Server) ListUsage(c *gin.Context) {
	var q UsageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entries, err := s.Usage.ListUsage(c.Request.Context(), q.Flow, q.Limit)
	if err != nil {
		s.fail(c, "list usage", err)
		return
	}
	if entries == nil {
		entries = []model.Usage{}
	}
	c.JSON(http.StatusOK, gin.H{"usage": entries})
}

func (s *Server) UsageTotals(c *gin.Context) {
	totals, err := s.Usage.UsageTotals(c.Request.Context())
	if err != nil {
		s.fail(c, "sum usage", err)
		return
	}
	if totals == nil {
		totals = []model.UsageTotals{}
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

func (s *Server) Healthz(c *gin.Context) {
	if s.Health != nil {
		if err := s.Health(c.Request.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps domain errors to HTTP responses.
func (s *Server) fail(c *gin.Context, op string, err error) {
	var (
		invalid  *model.InvalidInputError
		external *model.ExternalInterpretationError
	)
	switch {
	case errors.As(err, &external):
		s.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha na interpretação do texto. Tente novamente.", "retryable": true})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason})
	case errors.Is(err, prompts.ErrUnknownKey):
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
	case errors.Is(err, prompts.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, prompts.ErrReadOnly):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrQualificationDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out", "retryable": true})
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}
