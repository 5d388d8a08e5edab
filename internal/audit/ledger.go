package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/types"
	"github.com/sirupsen/logrus"
)

// 审计事件名
const (
	EventTaskCreated       = "TASK_CREATED"
	EventStateTransition   = "STATE_TRANSITION"
	EventSubTaskExecuted   = "SUBTASK_EXECUTED"
	EventApprovalRequested = "APPROVAL_REQUESTED"
	EventApprovalApproved  = "APPROVAL_APPROVED"
	EventApprovalRejected  = "APPROVAL_REJECTED"
)

// SystemUser 自动化步骤的操作人标识
const SystemUser = "system"

// Ledger 审计账本
// 写入是尽力而为的: 失败只记日志,绝不向调用方传播,
// 不能因为审计写入失败而中止触发它的业务操作
type Ledger interface {
	Record(ctx context.Context, event string, taskID string, actor string, details map[string]interface{})
	ForTask(ctx context.Context, taskID string) []*types.AuditLogEntry
	All(ctx context.Context, page, limit int) []*types.AuditLogEntry
}

// ledger 审计账本实现
// 追加锁保证同一任务的事件按业务操作的调用顺序落账
type ledger struct {
	repo   repository.AuditLogRepository
	logger *logrus.Logger
	mu     sync.Mutex
	seq    int64
}

// NewLedger 创建审计账本
func NewLedger(repo repository.AuditLogRepository, logger *logrus.Logger) Ledger {
	if logger == nil {
		logger = logrus.New()
	}
	return &ledger{repo: repo, logger: logger}
}

// Record 追加一条记录,详情中的所有字符串值先脱敏再落账
func (l *ledger) Record(ctx context.Context, event string, taskID string, actor string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := &types.AuditLogEntry{
		ID:        uuid.New().String(),
		Seq:       l.seq,
		Timestamp: time.Now(),
		TaskID:    taskID,
		Event:     event,
		User:      actor,
		Details:   maskDetails(details),
	}

	if err := l.repo.Append(ctx, entry); err != nil {
		l.logger.WithFields(logrus.Fields{
			"event":   event,
			"task_id": taskID,
			"error":   err.Error(),
		}).Warn("audit append failed, entry dropped")
	}
}

// ForTask 返回指定任务的全部记录
func (l *ledger) ForTask(ctx context.Context, taskID string) []*types.AuditLogEntry {
	entries, err := l.repo.ListByTask(ctx, taskID)
	if err != nil {
		l.logger.WithField("task_id", taskID).WithError(err).Warn("audit query failed")
		return nil
	}
	return entries
}

// All 偏移分页查询,page 从 1 开始
func (l *ledger) All(ctx context.Context, page, limit int) []*types.AuditLogEntry {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	entries, err := l.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		l.logger.WithError(err).Warn("audit query failed")
		return nil
	}
	return entries
}

// TaskCreated 记录任务创建事件
func TaskCreated(ctx context.Context, l Ledger, task *types.Task) {
	l.Record(ctx, EventTaskCreated, task.ID, task.Metadata.Requester, map[string]interface{}{
		"type":      string(task.Type),
		"riskLevel": string(task.RiskLevel),
		"riskTags":  riskTagCategories(task.Metadata.RiskTags),
	})
}

// StateTransition 记录状态转换事件
func StateTransition(ctx context.Context, l Ledger, task *types.Task, from, to types.TaskState) {
	l.Record(ctx, EventStateTransition, task.ID, SystemUser, map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
}

// SubTaskExecuted 记录子任务执行事件,输入输出均脱敏
func SubTaskExecuted(ctx context.Context, l Ledger, task *types.Task, agentType types.AgentType, input, output string) {
	l.Record(ctx, EventSubTaskExecuted, task.ID, SystemUser, map[string]interface{}{
		"agentType": string(agentType),
		"input":     input,
		"output":    output,
	})
}

// ApprovalRequested 记录审批请求创建事件
func ApprovalRequested(ctx context.Context, l Ledger, request *types.ApprovalRequest) {
	l.Record(ctx, EventApprovalRequested, request.TaskID, SystemUser, map[string]interface{}{
		"requestId":   request.ID,
		"action":      request.Action,
		"target":      request.Target,
		"riskSummary": request.RiskSummary,
	})
}

// ApprovalResolved 记录审批决议事件
func ApprovalResolved(ctx context.Context, l Ledger, request *types.ApprovalRequest, approver string) {
	event := EventApprovalApproved
	if request.Status == types.ApprovalStatusRejected {
		event = EventApprovalRejected
	}
	l.Record(ctx, event, request.TaskID, approver, map[string]interface{}{
		"requestId": request.ID,
		"reason":    request.RejectionReason,
	})
}

func riskTagCategories(tags []types.RiskTag) []string {
	categories := make([]string, 0, len(tags))
	for _, tag := range tags {
		categories = append(categories, string(tag.Category))
	}
	return categories
}
