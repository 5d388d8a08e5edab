package workflow

import "github.com/mautops/officeflow/internal/types"

// stateTransitions 合法状态邻接表,ARCHIVED 为终态无出边
var stateTransitions = map[types.TaskState][]types.TaskState{
	types.TaskStateDraft:            {types.TaskStateReview},
	types.TaskStateReview:           {types.TaskStateApprovalRequired, types.TaskStateCompleted},
	types.TaskStateApprovalRequired: {types.TaskStateApproved, types.TaskStateReview},
	types.TaskStateApproved:         {types.TaskStateCompleted},
	types.TaskStateCompleted:        {types.TaskStateArchived},
}

// StateMachine 任务生命周期状态机
type StateMachine struct{}

// NewStateMachine 创建状态机
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// CanTransition 判断 from -> to 是否为合法转换
func (m *StateMachine) CanTransition(from, to types.TaskState) bool {
	for _, allowed := range stateTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NextStates 返回当前状态的所有合法后继状态
func (m *StateMachine) NextStates(current types.TaskState) []types.TaskState {
	return stateTransitions[current]
}

// DetermineNextState 根据当前状态、风险和审批结果计算下一个状态
// 其他状态保持不变(幂等,不是错误)
func (m *StateMachine) DetermineNextState(task *types.Task, request *types.ApprovalRequest) types.TaskState {
	switch task.State {
	case types.TaskStateDraft:
		return types.TaskStateReview

	case types.TaskStateReview:
		if m.RequiresApproval(task) {
			return types.TaskStateApprovalRequired
		}
		return types.TaskStateCompleted

	case types.TaskStateApprovalRequired:
		if request != nil && request.Status == types.ApprovalStatusApproved {
			return types.TaskStateApproved
		}
		if request != nil && request.Status == types.ApprovalStatusRejected {
			return types.TaskStateReview
		}
		return types.TaskStateApprovalRequired

	case types.TaskStateApproved:
		return types.TaskStateCompleted

	default:
		return task.State
	}
}

// RequiresApproval 判断任务是否需要人工审批
// 每次进入 REVIEW 时重新求值,不在任务上缓存
func (m *StateMachine) RequiresApproval(task *types.Task) bool {
	if task.RiskLevel == types.RiskLevelCritical {
		return true
	}
	if task.RiskLevel == types.RiskLevelHigh {
		return true
	}
	if task.Type == types.TaskTypeEmail && task.HasRiskCategory(types.RiskCategoryExternal) {
		return true
	}
	if task.HasRiskCategory(types.RiskCategoryPersonalInfo) {
		return true
	}
	return false
}
