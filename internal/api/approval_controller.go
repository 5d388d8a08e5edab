package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mautops/officeflow/internal/approval"
	"github.com/mautops/officeflow/internal/service"
)

// ApprovalController 审批门禁控制器
type ApprovalController struct {
	taskService service.TaskService
	approvals   approval.Service
}

// NewApprovalController 创建审批门禁控制器
func NewApprovalController(taskService service.TaskService, approvals approval.Service) *ApprovalController {
	return &ApprovalController{
		taskService: taskService,
		approvals:   approvals,
	}
}

// ResolveRequest 审批裁决请求
type ResolveRequest struct {
	Approver string `json:"approver" binding:"required"` // 审批人
	Reason   string `json:"reason"`                      // 拒绝原因
}

// handleServiceError 统一处理服务层错误
func (c *ApprovalController) handleServiceError(ctx *gin.Context, err error, operation string) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, approval.ErrNotFound):
		Error(ctx, http.StatusNotFound, "approval request not found", err.Error())
	case errors.Is(err, approval.ErrAlreadyResolved):
		Error(ctx, http.StatusConflict, "approval request already resolved", err.Error())
	default:
		Error(ctx, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
	return false
}

// ListPending 列出待决审批请求
func (c *ApprovalController) ListPending(ctx *gin.Context) {
	pending, err := c.approvals.ListPending(ctx.Request.Context())
	if !c.handleServiceError(ctx, err, "list pending approvals") {
		return
	}

	Success(ctx, pending)
}

// Get 获取审批请求详情
func (c *ApprovalController) Get(ctx *gin.Context) {
	request, err := c.approvals.Get(ctx.Request.Context(), ctx.Param("id"))
	if !c.handleServiceError(ctx, err, "get approval request") {
		return
	}

	Success(ctx, request)
}

// Approve 同意审批请求并推进对应任务
func (c *ApprovalController) Approve(ctx *gin.Context) {
	var req ResolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Approve(ctx.Request.Context(), ctx.Param("id"), req.Approver)
	if !c.handleServiceError(ctx, err, "approve request") {
		return
	}

	Success(ctx, task)
}

// Reject 拒绝审批请求,任务退回复核
func (c *ApprovalController) Reject(ctx *gin.Context) {
	var req ResolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Reject(ctx.Request.Context(), ctx.Param("id"), req.Approver, req.Reason)
	if !c.handleServiceError(ctx, err, "reject request") {
		return
	}

	Success(ctx, task)
}
