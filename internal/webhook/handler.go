package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/platform/httpkit"
	"leadpulse_backend/platform/validator"
)

// InboundRequest is the wire payload for a pushed channel event.
type InboundRequest struct {
	Phone        string                 `json:"phone" validate:"required,min=5,max=32"`
	DisplayName  string                 `json:"displayName,omitempty" validate:"max=200"`
	Email        *string                `json:"email,omitempty" validate:"omitempty,email"`
	Channel      string                 `json:"channel" validate:"required,oneof=web whatsapp voice social"`
	Sender       string                 `json:"sender,omitempty" validate:"omitempty,oneof=customer agent system"`
	Content      string                 `json:"content" validate:"max=10000"`
	ContextPatch *domain.UnifiedContext `json:"contextPatch,omitempty"`
}

// CreateAPIKeyRequest provisions a key for one brand integration.
type CreateAPIKeyRequest struct {
	Brand string `json:"brand" validate:"required,min=1,max=100"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
}

// APIKeyResponse is the stored key metadata; PlainKey is only present on
// creation.
type APIKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Brand     string    `json:"brand"`
	Name      string    `json:"name"`
	KeyPrefix string    `json:"keyPrefix"`
	IsActive  bool      `json:"isActive"`
	PlainKey  string    `json:"plainKey,omitempty"`
}

// Handler handles webhook HTTP requests.
type Handler struct {
	svc  *Service
	repo *Repository
	val  *validator.Validator
}

// NewHandler creates a new webhook handler.
func NewHandler(svc *Service, repo *Repository, val *validator.Validator) *Handler {
	return &Handler{svc: svc, repo: repo, val: val}
}

// HandleInbound handles POST /api/v1/webhook/inbound (API key auth).
func (h *Handler) HandleInbound(c *gin.Context) {
	var req InboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	brand := c.GetString(contextBrandKey)

	result, err := h.svc.ProcessInbound(c.Request.Context(), brand, InboundEvent{
		Phone:        req.Phone,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Channel:      req.Channel,
		Sender:       req.Sender,
		Content:      req.Content,
		ContextPatch: req.ContextPatch,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, result)
}

// HandleCreateAPIKey handles POST /api/v1/webhook/keys (JWT auth).
func (h *Handler) HandleCreateAPIKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate key", nil)
		return
	}

	key, err := h.repo.Create(c.Request.Context(), req.Brand, req.Name, hash, prefix)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to store key", nil)
		return
	}

	httpkit.JSON(c, http.StatusCreated, APIKeyResponse{
		ID:        key.ID,
		Brand:     key.Brand,
		Name:      key.Name,
		KeyPrefix: key.KeyPrefix,
		IsActive:  key.IsActive,
		PlainKey:  plaintext,
	})
}

// HandleListAPIKeys handles GET /api/v1/webhook/keys?brand= (JWT auth).
func (h *Handler) HandleListAPIKeys(c *gin.Context) {
	brand := c.Query("brand")
	if brand == "" {
		httpkit.Error(c, http.StatusBadRequest, "brand query parameter is required", nil)
		return
	}

	keys, err := h.repo.ListByBrand(c.Request.Context(), brand)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to list keys", nil)
		return
	}

	out := make([]APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		out = append(out, APIKeyResponse{
			ID:        key.ID,
			Brand:     key.Brand,
			Name:      key.Name,
			KeyPrefix: key.KeyPrefix,
			IsActive:  key.IsActive,
		})
	}
	httpkit.OK(c, out)
}

// HandleRevokeAPIKey handles DELETE /api/v1/webhook/keys/:keyId (JWT auth).
func (h *Handler) HandleRevokeAPIKey(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "keyId must be a UUID", nil)
		return
	}

	if err := h.repo.Revoke(c.Request.Context(), keyID); err != nil {
		if err == ErrAPIKeyNotFound {
			httpkit.Error(c, http.StatusNotFound, "key not found", nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, "failed to revoke key", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
