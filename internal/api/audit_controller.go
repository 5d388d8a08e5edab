package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mautops/officeflow/internal/service"
)

// AuditController 审计账本查询控制器
type AuditController struct {
	auditQuery service.AuditQueryService
}

// NewAuditController 创建审计账本查询控制器
func NewAuditController(auditQuery service.AuditQueryService) *AuditController {
	return &AuditController{auditQuery: auditQuery}
}

// ForTask 查询单个任务的审计记录,按追加顺序返回
func (c *AuditController) ForTask(ctx *gin.Context) {
	entries := c.auditQuery.ForTask(ctx.Request.Context(), ctx.Param("id"))
	Success(ctx, entries)
}

// List 分页查询全部审计记录
func (c *AuditController) List(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	entries := c.auditQuery.All(ctx.Request.Context(), page, limit)
	Paginated(ctx, entries, PaginationInfo{
		Page:     page,
		PageSize: limit,
		Count:    len(entries),
	})
}
