package repository

import (
	"context"
	"errors"

	"github.com/mautops/officeflow/internal/types"
)

// ErrNotFound 实体不存在
var ErrNotFound = errors.New("not found")

// TaskRepository 任务仓储接口
// Update 在仓储的并发保护下执行读-改-写,防止并发调用方丢失更新
type TaskRepository interface {
	Create(ctx context.Context, task *types.Task) error
	Get(ctx context.Context, id string) (*types.Task, error)
	List(ctx context.Context) ([]*types.Task, error)
	Update(ctx context.Context, id string, mutate func(*types.Task) error) (*types.Task, error)
}

// ApprovalRequestRepository 审批请求仓储接口
type ApprovalRequestRepository interface {
	Create(ctx context.Context, request *types.ApprovalRequest) error
	Get(ctx context.Context, id string) (*types.ApprovalRequest, error)
	ListByStatus(ctx context.Context, status types.ApprovalStatus) ([]*types.ApprovalRequest, error)
	Update(ctx context.Context, id string, mutate func(*types.ApprovalRequest) error) (*types.ApprovalRequest, error)
}

// AuditLogRepository 审计账本仓储接口,只追加
type AuditLogRepository interface {
	Append(ctx context.Context, entry *types.AuditLogEntry) error
	ListByTask(ctx context.Context, taskID string) ([]*types.AuditLogEntry, error)
	List(ctx context.Context, offset, limit int) ([]*types.AuditLogEntry, error)
}
