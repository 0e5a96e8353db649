package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/outfitcast/internal/domain/credential"
	"github.com/yanqian/outfitcast/internal/domain/outfit"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	outfitSvc     outfit.Service
	credentialSvc credential.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(outfitSvc outfit.Service, credentialSvc credential.Service, logger *slog.Logger) *Handler {
	return &Handler{
		outfitSvc:     outfitSvc,
		credentialSvc: credentialSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Outfit returns clothing recommendations for the requested coordinates.
func (h *Handler) Outfit(c *gin.Context) {
	if strings.TrimSpace(c.Query("lat")) == "" || strings.TrimSpace(c.Query("lon")) == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lat and lon query parameters are required", nil))
		return
	}
	var req outfit.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.outfitSvc.Recommend(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, outfitErrors, "outfit_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterCredential stores a provider key and returns its opaque id.
func (h *Handler) RegisterCredential(c *gin.Context) {
	var req credential.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	view, err := h.credentialSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, credentialErrors, "credential_failed"))
		return
	}

	c.JSON(http.StatusCreated, view)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
