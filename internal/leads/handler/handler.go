// Package handler exposes the leads HTTP surface.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/internal/leads/service"
	"leadpulse_backend/internal/leads/transport"
	"leadpulse_backend/platform/httpkit"
	"leadpulse_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for leads
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the lead routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/score", h.GetScore)
	rg.POST("/:id/messages", h.RecordMessage)
	rg.GET("/:id/messages", h.ListMessages)
	rg.PATCH("/:id/stage", h.ChangeStage)
	rg.GET("/:id/stage-history", h.ListStageHistory)
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "id must be a UUID")
		return uuid.UUID{}, false
	}
	return id, true
}

// Create handles POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), service.CreateLeadInput{
		Phone:           req.Phone,
		Email:           req.Email,
		DisplayName:     req.DisplayName,
		Brand:           req.Brand,
		FirstTouchpoint: req.FirstTouchpoint,
		Context:         req.Context,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

// List handles GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	leads, total, err := h.svc.List(c.Request.Context(), repository.ListParams{
		Brand:  req.Brand,
		Stage:  req.Stage,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToListLeadsResponse(leads, total))
}

// GetByID handles GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// GetScore handles GET /api/v1/leads/:id/score
func (h *Handler) GetScore(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	eval, err := h.svc.GetScore(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToScoreResponse(eval))
}

// RecordMessage handles POST /api/v1/leads/:id/messages
func (h *Handler) RecordMessage(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.RecordMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	msg, err := h.svc.RecordMessage(c.Request.Context(), id, service.RecordMessageInput{
		Channel:        req.Channel,
		Sender:         req.Sender,
		Content:        req.Content,
		ResponseTimeMs: req.ResponseTimeMs,
		ContextPatch:   req.ContextPatch,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToMessageResponse(msg))
}

// ListMessages handles GET /api/v1/leads/:id/messages
func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	filters := repository.MessageFilters{Channel: req.Channel, Sender: req.Sender}
	if req.Since != nil {
		filters.Since = *req.Since
	}

	messages, err := h.svc.ListMessages(c.Request.Context(), id, filters)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToMessageResponses(messages))
}

// ChangeStage handles PATCH /api/v1/leads/:id/stage
func (h *Handler) ChangeStage(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.ChangeStage(c.Request.Context(), id, service.ChangeStageInput{
		Stage:     req.Stage,
		SubStage:  req.SubStage,
		ChangedBy: changedBy(c),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// ListStageHistory handles GET /api/v1/leads/:id/stage-history
func (h *Handler) ListStageHistory(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	history, err := h.svc.ListStageHistory(c.Request.Context(), id, 0)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToStageHistoryResponses(history))
}

// changedBy attributes a stage change to the authenticated subject, falling
// back to "system" for unauthenticated paths.
func changedBy(c *gin.Context) string {
	if subject, ok := c.Get(httpkit.ContextUserIDKey); ok {
		if s, ok := subject.(string); ok && s != "" {
			return s
		}
	}
	return "system"
}
