package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mautops/officeflow/internal/audit"
	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/types"
)

// ErrNotFound 审批请求不存在
var ErrNotFound = errors.New("approval request not found")

// ErrAlreadyResolved 审批请求已被决议,拒绝重复决议
var ErrAlreadyResolved = errors.New("approval request already resolved")

// Service 审批门,创建、跟踪并决议审批请求
type Service interface {
	Create(ctx context.Context, task *types.Task, action, target, scope string, alternatives []string) (*types.ApprovalRequest, error)
	Approve(ctx context.Context, id, approver string) (*types.ApprovalRequest, error)
	Reject(ctx context.Context, id, approver, reason string) (*types.ApprovalRequest, error)
	Get(ctx context.Context, id string) (*types.ApprovalRequest, error)
	ListPending(ctx context.Context) ([]*types.ApprovalRequest, error)
}

// service 审批门实现
type service struct {
	repo   repository.ApprovalRequestRepository
	ledger audit.Ledger
}

// NewService 创建审批门
func NewService(repo repository.ApprovalRequestRepository, ledger audit.Ledger) Service {
	return &service{repo: repo, ledger: ledger}
}

// Create 为任务创建审批请求,每个门控事件恰好创建一次
// justification 为任务原始输入,风险摘要从风险标签合成
func (s *service) Create(ctx context.Context, task *types.Task, action, target, scope string, alternatives []string) (*types.ApprovalRequest, error) {
	if alternatives == nil {
		alternatives = []string{}
	}
	request := &types.ApprovalRequest{
		ID:            uuid.New().String(),
		TaskID:        task.ID,
		Action:        action,
		Target:        target,
		Scope:         scope,
		Justification: task.Input,
		RiskSummary:   riskSummary(task),
		Alternatives:  alternatives,
		RequestedAt:   time.Now(),
		Status:        types.ApprovalStatusPending,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}

	audit.ApprovalRequested(ctx, s.ledger, request)
	return request, nil
}

// Approve 同意审批请求
// 在仓储的原子读-改-写内执行 pending 状态检查,重复决议返回 ErrAlreadyResolved
func (s *service) Approve(ctx context.Context, id, approver string) (*types.ApprovalRequest, error) {
	return s.resolve(ctx, id, approver, types.ApprovalStatusApproved, "")
}

// Reject 拒绝审批请求
func (s *service) Reject(ctx context.Context, id, approver, reason string) (*types.ApprovalRequest, error) {
	return s.resolve(ctx, id, approver, types.ApprovalStatusRejected, reason)
}

func (s *service) resolve(ctx context.Context, id, approver string, status types.ApprovalStatus, reason string) (*types.ApprovalRequest, error) {
	request, err := s.repo.Update(ctx, id, func(req *types.ApprovalRequest) error {
		if req.Status != types.ApprovalStatusPending {
			return ErrAlreadyResolved
		}
		now := time.Now()
		req.Status = status
		req.ResolvedBy = approver
		req.ResolvedAt = &now
		req.RejectionReason = reason
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	audit.ApprovalResolved(ctx, s.ledger, request, approver)
	return request, nil
}

// Get 根据 ID 查找审批请求
func (s *service) Get(ctx context.Context, id string) (*types.ApprovalRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return request, nil
}

// ListPending 返回所有未决请求
func (s *service) ListPending(ctx context.Context) ([]*types.ApprovalRequest, error) {
	return s.repo.ListByStatus(ctx, types.ApprovalStatusPending)
}

// riskSummary 拼接各风险类别的人读标签,无风险时为固定文案
func riskSummary(task *types.Task) string {
	var risks []string

	if task.HasRiskCategory(types.RiskCategoryExternal) {
		risks = append(risks, "대외 발신 위험")
	}
	if task.HasRiskCategory(types.RiskCategoryPersonalInfo) {
		risks = append(risks, "개인정보 포함")
	}
	if task.HasRiskCategory(types.RiskCategorySecurity) {
		risks = append(risks, "보안 등급 상승")
	}

	if len(risks) == 0 {
		return "특별한 위험 없음"
	}
	return strings.Join(risks, ", ")
}
