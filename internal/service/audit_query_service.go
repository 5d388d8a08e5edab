package service

import (
	"context"

	"github.com/mautops/officeflow/internal/audit"
	"github.com/mautops/officeflow/internal/types"
)

// AuditQueryService 审计账本查询服务
type AuditQueryService interface {
	ForTask(ctx context.Context, taskID string) []*types.AuditLogEntry
	All(ctx context.Context, page, limit int) []*types.AuditLogEntry
}

// auditQueryService 审计账本查询服务实现
type auditQueryService struct {
	ledger audit.Ledger
}

// NewAuditQueryService 创建审计账本查询服务
func NewAuditQueryService(ledger audit.Ledger) AuditQueryService {
	return &auditQueryService{ledger: ledger}
}

// ForTask 按任务 ID 查询审计记录,按追加顺序返回
func (s *auditQueryService) ForTask(ctx context.Context, taskID string) []*types.AuditLogEntry {
	return s.ledger.ForTask(ctx, taskID)
}

// All 分页查询全部审计记录,page 从 1 开始
func (s *auditQueryService) All(ctx context.Context, page, limit int) []*types.AuditLogEntry {
	return s.ledger.All(ctx, page, limit)
}
