package leavesync

import (
	"context"
	"go-leavesync/internal/shared/apperror"
	"go-leavesync/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Syncer is the part of the Engine exposed over HTTP.
type Syncer interface {
	Sync(ctx context.Context, leaveID string, syncType SyncType) (Result, error)
	SyncNow(ctx context.Context, leaveID string) (Result, error)
	RemoteURL(ctx context.Context, leaveID string) (string, error)
}

type SyncRequest struct {
	// SyncType is optional; empty means update if synced, else create.
	SyncType string `json:"sync_type" binding:"omitempty,oneof=create update approve refuse"`
}

type RemoteURLResponse struct {
	URL string `json:"url"`
}

type Handler struct {
	syncer Syncer
	logger *zap.Logger
}

func NewHandler(syncer Syncer, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leavesync.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavesync.handler")
	}
	return &Handler{syncer: syncer, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave sync request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Sync(c *gin.Context) {
	var req SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		res Result
		err error
	)
	if req.SyncType == "" {
		res, err = h.syncer.SyncNow(ctx, id)
	} else {
		syncType, perr := ParseSyncType(req.SyncType)
		if perr != nil {
			h.writeServiceError(c, perr)
			return
		}
		res, err = h.syncer.Sync(ctx, id, syncType)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) RemoteURL(c *gin.Context) {
	url, err := h.syncer.RemoteURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, RemoteURLResponse{URL: url}, nil)
}
