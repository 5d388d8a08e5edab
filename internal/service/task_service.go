package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mautops/officeflow/internal/agent"
	"github.com/mautops/officeflow/internal/approval"
	"github.com/mautops/officeflow/internal/audit"
	"github.com/mautops/officeflow/internal/metrics"
	"github.com/mautops/officeflow/internal/orchestrator"
	"github.com/mautops/officeflow/internal/policy"
	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/risk"
	"github.com/mautops/officeflow/internal/types"
	"github.com/mautops/officeflow/internal/workflow"
)

// rulesVersion 当前策略规则集的版本号,写入任务元数据
const rulesVersion = "1.0.0"

// ErrInvalidTransition 状态机不允许的迁移
var ErrInvalidTransition = errors.New("invalid state transition")

// TaskService 任务服务接口
type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest) (*types.Task, error)
	Get(ctx context.Context, id string) (*types.Task, error)
	List(ctx context.Context) ([]*types.Task, error)
	Advance(ctx context.Context, id string) (*types.Task, error)
	ExecuteSubTasks(ctx context.Context, id string) (*types.Task, error)
	Approve(ctx context.Context, requestID, approver string) (*types.Task, error)
	Reject(ctx context.Context, requestID, approver, reason string) (*types.Task, error)
	Archive(ctx context.Context, id string) (*types.Task, error)
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string         `json:"title" binding:"required"`       // 任务标题
	Description string         `json:"description"`                    // 任务描述
	Input       string         `json:"input" binding:"required"`       // 原始请求内容
	Type        types.TaskType `json:"type"`                           // 显式任务类型,为空时自动分类
	Requester   string         `json:"requester" binding:"required"`   // 申请人
}

type taskService struct {
	tasks     repository.TaskRepository
	engine    *policy.Engine
	planner   *orchestrator.Planner
	machine   *workflow.StateMachine
	agents    *agent.Registry
	approvals approval.Service
	ledger    audit.Ledger
	logger    *logrus.Logger
}

// NewTaskService 创建任务服务
func NewTaskService(
	tasks repository.TaskRepository,
	engine *policy.Engine,
	planner *orchestrator.Planner,
	machine *workflow.StateMachine,
	agents *agent.Registry,
	approvals approval.Service,
	ledger audit.Ledger,
	logger *logrus.Logger,
) TaskService {
	return &taskService{
		tasks:     tasks,
		engine:    engine,
		planner:   planner,
		machine:   machine,
		agents:    agents,
		approvals: approvals,
		ledger:    ledger,
		logger:    logger,
	}
}

// Create 受理请求: 分类 -> 策略求值 -> 建档 -> 编排子任务
func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest) (*types.Task, error) {
	// 1. 风险分类: 任务类型、风险标签、聚合等级
	taskType, riskTags, riskLevel := risk.Classify(req.Input, req.Type)

	// 2. 策略求值: 规则对原始输入求值,可能注入标签、审批人和模板
	policyResult := s.engine.Evaluate(req.Input, taskType)

	now := time.Now()
	task := &types.Task{
		ID:          uuid.New().String(),
		Type:        taskType,
		State:       types.TaskStateDraft,
		RiskLevel:   riskLevel,
		Title:       req.Title,
		Description: req.Description,
		Input:       policyResult.ModifiedInput,
		Metadata: types.TaskMetadata{
			Requester:    req.Requester,
			RulesVersion: rulesVersion,
			PolicyTags:   policyResult.Tags,
			RiskTags:     riskTags,
			AuditLogID:   uuid.New().String(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 策略要求审批时记录第一个审批人
	if len(policyResult.RequiredApprovers) > 0 {
		task.Metadata.Approver = policyResult.RequiredApprovers[0]
	}

	// 3. 编排: 按任务类型生成子任务计划
	task.SubTasks = s.planner.Plan(task)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	audit.TaskCreated(ctx, s.ledger, task)
	metrics.RecordTaskCreated(string(task.Type), string(task.RiskLevel))

	s.logger.WithFields(logrus.Fields{
		"task_id":    task.ID,
		"type":       task.Type,
		"risk_level": task.RiskLevel,
		"sub_tasks":  len(task.SubTasks),
	}).Info("Task created")

	return task, nil
}

// Get 查询任务
func (s *taskService) Get(ctx context.Context, id string) (*types.Task, error) {
	return s.tasks.Get(ctx, id)
}

// List 列出全部任务
func (s *taskService) List(ctx context.Context) ([]*types.Task, error) {
	return s.tasks.List(ctx)
}

// Advance 按状态机推进任务一步
// APPROVAL_REQUIRED 状态下没有已决审批时原地不动;进入
// APPROVAL_REQUIRED 时开启审批门禁
func (s *taskService) Advance(ctx context.Context, id string) (*types.Task, error) {
	return s.advance(ctx, id, nil)
}

// advance 推进状态机,request 为已决的审批请求(可为 nil)
func (s *taskService) advance(ctx context.Context, id string, request *types.ApprovalRequest) (*types.Task, error) {
	var from, to types.TaskState

	task, err := s.tasks.Update(ctx, id, func(t *types.Task) error {
		from = t.State
		to = s.machine.DetermineNextState(t, request)
		if to == from {
			return nil
		}
		if !s.machine.CanTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}

		t.State = to
		t.UpdatedAt = time.Now()
		if to == types.TaskStateCompleted {
			now := time.Now()
			t.CompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to == from {
		return task, nil
	}

	audit.StateTransition(ctx, s.ledger, task, from, to)
	metrics.RecordStateTransition(string(from), string(to))

	// 进入审批等待时开启门禁
	if to == types.TaskStateApprovalRequired {
		req, err := s.approvals.Create(ctx, task, "execute_task", string(task.Type), "task", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to open approval gate: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"task_id":    task.ID,
			"request_id": req.ID,
		}).Info("Approval gate opened")
	}

	return task, nil
}

// ExecuteSubTasks 委派并执行所有未完成的子任务
// 子任务全部完成且任务处于 REVIEW 时自动推进状态机
func (s *taskService) ExecuteSubTasks(ctx context.Context, id string) (*types.Task, error) {
	type executed struct {
		agentType types.AgentType
		input     string
		output    string
	}
	var results []executed

	task, err := s.tasks.Update(ctx, id, func(t *types.Task) error {
		for _, st := range t.SubTasks {
			if st.Status == types.TaskStateCompleted || st.Status == types.TaskStateApproved {
				continue
			}

			s.planner.Delegate(t, st.ID)

			a, err := s.agents.Lookup(st.AgentType)
			if err != nil {
				return err
			}
			output, err := a.Execute(st)
			if err != nil {
				return fmt.Errorf("agent %s failed: %w", st.AgentType, err)
			}

			st.Output = output
			st.Status = types.TaskStateCompleted
			results = append(results, executed{agentType: st.AgentType, input: st.Input, output: output})
		}
		t.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		audit.SubTaskExecuted(ctx, s.ledger, task, r.agentType, r.input, r.output)
		metrics.RecordSubTaskExecuted(string(r.agentType))
	}

	// 全部完成后自动推进,等待审批的任务停在门禁前
	if s.planner.IsComplete(task) && task.State == types.TaskStateReview {
		return s.advance(ctx, task.ID, nil)
	}

	return task, nil
}

// Approve 同意审批请求并推进对应任务
func (s *taskService) Approve(ctx context.Context, requestID, approver string) (*types.Task, error) {
	request, err := s.approvals.Approve(ctx, requestID, approver)
	if err != nil {
		return nil, err
	}
	metrics.RecordApproval("approve")

	// 记录审批人,再按已决请求推进到 APPROVED
	if _, err := s.tasks.Update(ctx, request.TaskID, func(t *types.Task) error {
		t.Metadata.Approver = approver
		return nil
	}); err != nil {
		return nil, err
	}
	return s.advance(ctx, request.TaskID, request)
}

// Reject 拒绝审批请求,任务退回 REVIEW
func (s *taskService) Reject(ctx context.Context, requestID, approver, reason string) (*types.Task, error) {
	request, err := s.approvals.Reject(ctx, requestID, approver, reason)
	if err != nil {
		return nil, err
	}
	metrics.RecordApproval("reject")

	return s.advance(ctx, request.TaskID, request)
}

// Archive 归档已完成的任务,归档为终态
func (s *taskService) Archive(ctx context.Context, id string) (*types.Task, error) {
	var from types.TaskState

	task, err := s.tasks.Update(ctx, id, func(t *types.Task) error {
		from = t.State
		if !s.machine.CanTransition(t.State, types.TaskStateArchived) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.State, types.TaskStateArchived)
		}
		t.State = types.TaskStateArchived
		t.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit.StateTransition(ctx, s.ledger, task, from, types.TaskStateArchived)
	metrics.RecordStateTransition(string(from), string(types.TaskStateArchived))

	return task, nil
}
