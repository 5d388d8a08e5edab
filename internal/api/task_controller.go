package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/service"
)

// TaskController 任务控制器
type TaskController struct {
	taskService service.TaskService
}

// NewTaskController 创建任务控制器
func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// handleServiceError 统一处理服务层错误
func (c *TaskController) handleServiceError(ctx *gin.Context, err error, operation string) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		Error(ctx, http.StatusNotFound, "task not found", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		Error(ctx, http.StatusConflict, "invalid state transition", err.Error())
	default:
		Error(ctx, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
	return false
}

// Create 受理新请求并创建任务
func (c *TaskController) Create(ctx *gin.Context) {
	var req service.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Create(ctx.Request.Context(), &req)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to create task", err.Error())
		return
	}

	Created(ctx, task)
}

// Get 获取任务详情
func (c *TaskController) Get(ctx *gin.Context) {
	task, err := c.taskService.Get(ctx.Request.Context(), ctx.Param("id"))
	if !c.handleServiceError(ctx, err, "get task") {
		return
	}

	Success(ctx, task)
}

// List 列出全部任务
func (c *TaskController) List(ctx *gin.Context) {
	tasks, err := c.taskService.List(ctx.Request.Context())
	if !c.handleServiceError(ctx, err, "list tasks") {
		return
	}

	Success(ctx, tasks)
}

// Advance 按状态机推进任务一步
func (c *TaskController) Advance(ctx *gin.Context) {
	task, err := c.taskService.Advance(ctx.Request.Context(), ctx.Param("id"))
	if !c.handleServiceError(ctx, err, "advance task") {
		return
	}

	Success(ctx, task)
}

// Execute 委派并执行任务的全部子任务
func (c *TaskController) Execute(ctx *gin.Context) {
	task, err := c.taskService.ExecuteSubTasks(ctx.Request.Context(), ctx.Param("id"))
	if !c.handleServiceError(ctx, err, "execute sub tasks") {
		return
	}

	Success(ctx, task)
}

// Archive 归档已完成的任务
func (c *TaskController) Archive(ctx *gin.Context) {
	task, err := c.taskService.Archive(ctx.Request.Context(), ctx.Param("id"))
	if !c.handleServiceError(ctx, err, "archive task") {
		return
	}

	Success(ctx, task)
}
