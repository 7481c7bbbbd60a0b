package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/domain"
	"github.com/alexanderramin/opsassist/internal/schema"
	"github.com/alexanderramin/opsassist/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	maxBodyBytes      = 1 << 20
	defaultAuditLimit = 20
	maxAuditLimit     = 200
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type rootResponse struct {
	Service string `json:"service"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
	Plan    string `json:"plan"`
	Audit   string `json:"audit"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, rootResponse{
		Service: serviceName,
		Docs:    "/docs",
		Health:  "/health",
		Plan:    "/plan",
		Audit:   "/audit",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handlePlan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req contract.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.planning.Plan(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAuditList(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			c.JSON(http.StatusBadRequest, errorBody{Error: "limit must be an integer between 1 and 200", Field: "limit"})
			return
		}
		limit = n
	}

	entries, err := s.audits.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleAuditShow(c *gin.Context) {
	record, err := s.audits.Show(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleIntentStats(c *gin.Context) {
	tallies, err := s.audits.Tallies(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if tallies == nil {
		tallies = []domain.IntentTally{}
	}
	c.JSON(http.StatusOK, gin.H{"intents": tallies})
}

// writeError maps service errors onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var vErr *contract.ValidationError
	var loadErr *schema.LoadError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, errorBody{Error: vErr.Message, Field: vErr.Field})
	case errors.Is(err, contract.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.As(err, &loadErr):
		c.JSON(http.StatusUnprocessableEntity, errorBody{Error: loadErr.Error(), Field: "schema_path"})
	case errors.Is(err, audit.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "audit event not found"})
	case errors.Is(err, service.ErrAuditIndexDisabled):
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
