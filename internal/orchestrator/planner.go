package orchestrator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mautops/officeflow/internal/types"
)

// Planner 编排规划器,按任务类型生成固定的子任务计划
type Planner struct{}

// NewPlanner 创建规划器
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan 为任务生成有序子任务列表
// 纯函数,只依赖 task.Type 和 task.Input;子任务之间无依赖关系,
// 所有 dependencies 均为空
func (p *Planner) Plan(task *types.Task) []*types.SubTask {
	switch task.Type {
	case types.TaskTypeMeeting:
		return []*types.SubTask{
			newSubTask(types.AgentTypeDoc, fmt.Sprintf("Generate meeting minutes from: %s", task.Input)),
			newSubTask(types.AgentTypePMO, fmt.Sprintf("Extract action items and schedule from: %s", task.Input)),
			newSubTask(types.AgentTypeComms, fmt.Sprintf("Draft follow-up email based on meeting: %s", task.Input)),
			newSubTask(types.AgentTypeCompliance, fmt.Sprintf("Review for external communication and PII: %s", task.Input)),
		}
	case types.TaskTypeEmail:
		return []*types.SubTask{
			newSubTask(types.AgentTypeComms, fmt.Sprintf("Draft email: %s", task.Input)),
			newSubTask(types.AgentTypeCompliance, fmt.Sprintf("Review for external/PII: %s", task.Input)),
		}
	case types.TaskTypeSchedule:
		return []*types.SubTask{
			newSubTask(types.AgentTypePMO, fmt.Sprintf("Create schedule: %s", task.Input)),
			newSubTask(types.AgentTypeCompliance, fmt.Sprintf("Review schedule for conflicts: %s", task.Input)),
		}
	case types.TaskTypeData:
		return []*types.SubTask{
			newSubTask(types.AgentTypeData, fmt.Sprintf("Analyze data: %s", task.Input)),
			newSubTask(types.AgentTypeDoc, "Create report from analysis"),
		}
	default:
		return []*types.SubTask{
			newSubTask(types.AgentTypeDoc, fmt.Sprintf("Create document: %s", task.Input)),
		}
	}
}

// Delegate 将单个子任务从 DRAFT 转入 REVIEW,未知 ID 时静默返回
func (p *Planner) Delegate(task *types.Task, subTaskID string) {
	subTask := task.FindSubTask(subTaskID)
	if subTask == nil {
		return
	}
	subTask.Status = types.TaskStateReview
}

// IsComplete 所有子任务均为 COMPLETED 或 APPROVED 时任务才算完成
func (p *Planner) IsComplete(task *types.Task) bool {
	for _, st := range task.SubTasks {
		if st.Status != types.TaskStateCompleted && st.Status != types.TaskStateApproved {
			return false
		}
	}
	return true
}

func newSubTask(agentType types.AgentType, input string) *types.SubTask {
	return &types.SubTask{
		ID:           uuid.New().String(),
		AgentType:    agentType,
		Status:       types.TaskStateDraft,
		Input:        input,
		Dependencies: []string{},
	}
}
