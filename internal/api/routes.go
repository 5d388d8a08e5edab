package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mautops/officeflow/internal/approval"
	"github.com/mautops/officeflow/internal/config"
	"github.com/mautops/officeflow/internal/service"
)

// SetupRoutes 配置路由
func SetupRoutes(cfg *config.Config, db *gorm.DB, taskService service.TaskService, approvals approval.Service, auditQuery service.AuditQueryService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		router.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	if cfg.Tracing.Enabled {
		router.Use(TracingMiddleware())
	}

	// 未匹配的路由返回 JSON 404
	router.NoRoute(func(c *gin.Context) {
		Error(c, 404, "route not found", c.Request.URL.Path)
	})

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	taskController := NewTaskController(taskService)
	approvalController := NewApprovalController(taskService, approvals)
	auditController := NewAuditController(auditQuery)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 任务生命周期路由
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", taskController.Create)
			tasks.GET("", taskController.List)
			tasks.GET("/:id", taskController.Get)
			tasks.POST("/:id/advance", taskController.Advance)
			tasks.POST("/:id/execute", taskController.Execute)
			tasks.POST("/:id/archive", taskController.Archive)
			tasks.GET("/:id/audit", auditController.ForTask)
		}

		// 审批门禁路由
		approvals := v1.Group("/approvals")
		{
			approvals.GET("/pending", approvalController.ListPending)
			approvals.GET("/:id", approvalController.Get)
			approvals.POST("/:id/approve", approvalController.Approve)
			approvals.POST("/:id/reject", approvalController.Reject)
		}

		// 审计账本路由
		audit := v1.Group("/audit")
		{
			audit.GET("", auditController.List)
		}
	}

	return router
}
