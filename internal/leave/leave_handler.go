package leave

import (
	"go-leavesync/internal/middleware"
	"go-leavesync/internal/shared/apperror"
	"go-leavesync/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rbac    middleware.RBACService
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rbacService middleware.RBACService, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rbac: rbacService, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// present hides the remote id and sync error from callers without leave:sync.
func (h *Handler) present(c *gin.Context, resp LeaveResponse) LeaveResponse {
	if middleware.Can(c, h.rbac, "leave", "sync") {
		return resp
	}
	return resp.WithoutSyncDetails()
}

func (h *Handler) Create(c *gin.Context) {
	actorID := c.GetString("user_id")
	h.logger.Debug("http create leave", zap.String("actor_id", actorID))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		h.writeServiceError(c, err)
		return
	}

	out := h.present(c, resp)
	middleware.RememberResponse(c, h.rdb, out)
	response.Success(c, http.StatusCreated, out, nil)
}

// GetAll supports employee_id, state and sync_status filters.
func (h *Handler) GetAll(c *gin.Context) {
	filter := ListFilter{
		EmployeeID: c.Query("employee_id"),
		State:      c.Query("state"),
		SyncStatus: c.Query("sync_status"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	for i := range resp {
		resp[i] = h.present(c, resp[i])
	}
	start, end, meta := response.Page(c, len(resp))
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.present(c, resp), nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.present(c, resp), nil)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.respond(c, func(id string) (LeaveResponse, error) {
		return h.service.Confirm(c.Request.Context(), id)
	})
}

func (h *Handler) Approve(c *gin.Context) {
	actorID := c.GetString("user_id")
	h.respond(c, func(id string) (LeaveResponse, error) {
		return h.service.Approve(c.Request.Context(), actorID, id)
	})
}

func (h *Handler) Refuse(c *gin.Context) {
	h.respond(c, func(id string) (LeaveResponse, error) {
		return h.service.Refuse(c.Request.Context(), id)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.respond(c, func(id string) (LeaveResponse, error) {
		return h.service.Cancel(c.Request.Context(), id)
	})
}

func (h *Handler) ResetToDraft(c *gin.Context) {
	h.respond(c, func(id string) (LeaveResponse, error) {
		return h.service.ResetToDraft(c.Request.Context(), id)
	})
}

func (h *Handler) respond(c *gin.Context, fn func(id string) (LeaveResponse, error)) {
	resp, err := fn(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, h.present(c, resp), nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
