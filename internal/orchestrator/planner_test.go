package orchestrator

import (
	"testing"

	"github.com/mautops/officeflow/internal/types"
	"github.com/stretchr/testify/assert"
)

// TestPlanMeeting 会议任务恰好 4 个子任务,顺序 doc/pmo/comms/compliance
func TestPlanMeeting(t *testing.T) {
	p := NewPlanner()
	task := &types.Task{Type: types.TaskTypeMeeting, Input: "주간 회의 결과 정리"}

	plan := p.Plan(task)

	assert.Len(t, plan, 4)
	expected := []types.AgentType{
		types.AgentTypeDoc,
		types.AgentTypePMO,
		types.AgentTypeComms,
		types.AgentTypeCompliance,
	}
	for i, st := range plan {
		assert.Equal(t, expected[i], st.AgentType)
		assert.Equal(t, types.TaskStateDraft, st.Status)
		assert.Empty(t, st.Dependencies)
		assert.Contains(t, st.Input, "주간 회의 결과 정리")
	}
}

// TestPlanPerType 各类型的固定计划
func TestPlanPerType(t *testing.T) {
	p := NewPlanner()

	cases := []struct {
		taskType types.TaskType
		agents   []types.AgentType
	}{
		{types.TaskTypeEmail, []types.AgentType{types.AgentTypeComms, types.AgentTypeCompliance}},
		{types.TaskTypeSchedule, []types.AgentType{types.AgentTypePMO, types.AgentTypeCompliance}},
		{types.TaskTypeData, []types.AgentType{types.AgentTypeData, types.AgentTypeDoc}},
		{types.TaskTypeDocument, []types.AgentType{types.AgentTypeDoc}},
		{types.TaskTypeApproval, []types.AgentType{types.AgentTypeDoc}}, // 默认计划
	}

	for _, tc := range cases {
		plan := p.Plan(&types.Task{Type: tc.taskType, Input: "입력"})
		assert.Len(t, plan, len(tc.agents), "type %s", tc.taskType)
		for i, st := range plan {
			assert.Equal(t, tc.agents[i], st.AgentType)
		}
	}
}

// TestPlanUniqueIDs 子任务 ID 在任务内唯一且新生成
func TestPlanUniqueIDs(t *testing.T) {
	p := NewPlanner()
	plan := p.Plan(&types.Task{Type: types.TaskTypeMeeting, Input: "회의"})

	seen := make(map[string]bool)
	for _, st := range plan {
		assert.NotEmpty(t, st.ID)
		assert.False(t, seen[st.ID], "duplicate subtask id %s", st.ID)
		seen[st.ID] = true
	}
}

// TestDelegate 委派将子任务转入 REVIEW,未知 ID 静默返回
func TestDelegate(t *testing.T) {
	p := NewPlanner()
	task := &types.Task{Type: types.TaskTypeEmail, Input: "메일"}
	task.SubTasks = p.Plan(task)

	p.Delegate(task, task.SubTasks[0].ID)
	assert.Equal(t, types.TaskStateReview, task.SubTasks[0].Status)
	assert.Equal(t, types.TaskStateDraft, task.SubTasks[1].Status)

	// 未知 ID 不报错也不改变状态
	p.Delegate(task, "no-such-id")
	assert.Equal(t, types.TaskStateReview, task.SubTasks[0].Status)
	assert.Equal(t, types.TaskStateDraft, task.SubTasks[1].Status)
}

// TestIsComplete 所有子任务 COMPLETED/APPROVED 时才完成
func TestIsComplete(t *testing.T) {
	p := NewPlanner()
	task := &types.Task{Type: types.TaskTypeEmail, Input: "메일"}
	task.SubTasks = p.Plan(task)

	assert.False(t, p.IsComplete(task))

	task.SubTasks[0].Status = types.TaskStateCompleted
	assert.False(t, p.IsComplete(task))

	task.SubTasks[1].Status = types.TaskStateApproved
	assert.True(t, p.IsComplete(task))
}

// TestIsCompleteEmpty 无子任务的任务视为完成
func TestIsCompleteEmpty(t *testing.T) {
	p := NewPlanner()
	assert.True(t, p.IsComplete(&types.Task{}))
}
