package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mautops/officeflow/internal/agent"
	"github.com/mautops/officeflow/internal/approval"
	"github.com/mautops/officeflow/internal/audit"
	"github.com/mautops/officeflow/internal/orchestrator"
	"github.com/mautops/officeflow/internal/policy"
	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/types"
	"github.com/mautops/officeflow/internal/workflow"
)

// newTestService 基于内存仓储装配完整的任务服务
func newTestService(t *testing.T) (TaskService, approval.Service, audit.Ledger) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	ledger := audit.NewLedger(repository.NewMemoryAuditLogRepository(), logger)
	approvals := approval.NewService(repository.NewMemoryApprovalRepository(), ledger)
	svc := NewTaskService(
		repository.NewMemoryTaskRepository(),
		policy.NewEngine(nil, nil),
		orchestrator.NewPlanner(),
		workflow.NewStateMachine(),
		agent.NewRegistry(),
		approvals,
		ledger,
		logger,
	)
	return svc, approvals, ledger
}

// TestCreateLowRiskTask 测试低风险任务的受理
func TestCreateLowRiskTask(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "주간 회의록",
		Input:     "주간 회의 내용 정리해줘",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)

	assert.Equal(t, types.TaskTypeMeeting, task.Type)
	assert.Equal(t, types.TaskStateDraft, task.State)
	assert.Equal(t, types.RiskLevelLow, task.RiskLevel)
	assert.Equal(t, "user@corp.kr", task.Metadata.Requester)
	assert.Equal(t, "1.0.0", task.Metadata.RulesVersion)
	assert.NotEmpty(t, task.Metadata.AuditLogID)
	assert.Len(t, task.SubTasks, 4)

	// 受理即记录审计
	entries := ledger.ForTask(ctx, task.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.EventTaskCreated, entries[0].Event)
}

// TestCreateAppliesPolicyTemplate 测试策略模板改写输入
func TestCreateAppliesPolicyTemplate(t *testing.T) {
	svc, _, _ := newTestService(t)

	task, err := svc.Create(context.Background(), &CreateTaskRequest{
		Title:     "외부 메일",
		Input:     "외부 고객에게 보낼 메일 작성",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)

	// rule-001 命中: 注入标签、审批人并套用正式邮件模板
	assert.Contains(t, task.Metadata.PolicyTags, "external-communication")
	assert.Equal(t, "manager", task.Metadata.Approver)
	assert.Contains(t, task.Input, "외부 고객에게 보낼 메일 작성")
	assert.NotEqual(t, "외부 고객에게 보낼 메일 작성", task.Input)
}

// TestLifecycleLowRisk 测试低风险任务的完整生命周期
// DRAFT -> REVIEW -> COMPLETED -> ARCHIVED,不经过审批门禁
func TestLifecycleLowRisk(t *testing.T) {
	svc, approvals, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "문서 작성",
		Input:     "사내 가이드 문서 작성",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)

	task, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateReview, task.State)

	// 子任务执行完毕后自动推进到 COMPLETED
	task, err = svc.ExecuteSubTasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateCompleted, task.State)
	assert.NotNil(t, task.CompletedAt)
	for _, st := range task.SubTasks {
		assert.Equal(t, types.TaskStateCompleted, st.Status)
		assert.NotEmpty(t, st.Output)
	}

	// 未开启任何审批门禁
	pending, err := approvals.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	task, err = svc.Archive(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateArchived, task.State)
}

// TestLifecycleHighRiskApproved 测试高风险任务经审批门禁后完成
func TestLifecycleHighRiskApproved(t *testing.T) {
	svc, approvals, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "대외 발신",
		Input:     "대외 발신 메일 작성",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)
	assert.Equal(t, types.RiskLevelHigh, task.RiskLevel)

	task, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, types.TaskStateReview, task.State)

	// 高风险任务执行完子任务后停在审批门禁
	task, err = svc.ExecuteSubTasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateApprovalRequired, task.State)

	pending, err := approvals.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, task.ID, pending[0].TaskID)
	assert.Contains(t, pending[0].RiskSummary, "대외 발신 위험")

	// 审批同意后推进到 APPROVED,再推进到 COMPLETED
	task, err = svc.Approve(ctx, pending[0].ID, "manager@corp.kr")
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateApproved, task.State)
	assert.Equal(t, "manager@corp.kr", task.Metadata.Approver)

	task, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateCompleted, task.State)
}

// TestLifecycleHighRiskRejected 测试审批拒绝后任务退回 REVIEW
func TestLifecycleHighRiskRejected(t *testing.T) {
	svc, approvals, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "보안 문서",
		Input:     "기밀 보안 자료 정리",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)
	require.Equal(t, types.RiskLevelCritical, task.RiskLevel)

	_, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	task, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, types.TaskStateApprovalRequired, task.State)

	pending, err := approvals.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	task, err = svc.Reject(ctx, pending[0].ID, "manager@corp.kr", "근거 부족")
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateReview, task.State)
}

// TestAdvanceBlockedWithoutResolution 测试未决审批时任务停在门禁前
func TestAdvanceBlockedWithoutResolution(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "대외 메일",
		Input:     "대외 발신 메일 작성",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)

	_, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	task, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, types.TaskStateApprovalRequired, task.State)

	// 没有已决审批,推进是无操作
	task, err = svc.Advance(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStateApprovalRequired, task.State)
}

// TestArchiveRequiresCompleted 测试只有 COMPLETED 的任务可归档
func TestArchiveRequiresCompleted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "문서",
		Input:     "문서 작성",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, task.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// TestGetUnknownTask 测试查询不存在的任务
func TestGetUnknownTask(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestAuditTrailMasksSensitiveValues 测试审计记录对敏感信息脱敏
func TestAuditTrailMasksSensitiveValues(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &CreateTaskRequest{
		Title:     "개인정보 처리",
		Input:     "주민등록번호 123456-1234567 포함 문서 작성",
		Requester: "user@corp.kr",
	})
	require.NoError(t, err)

	entries := ledger.ForTask(ctx, task.ID)
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		for _, v := range entry.Details {
			if s, ok := v.(string); ok {
				assert.NotContains(t, s, "123456-1234567")
			}
		}
	}
}
