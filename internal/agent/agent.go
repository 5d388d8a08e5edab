package agent

import (
	"fmt"

	"github.com/mautops/officeflow/internal/types"
)

// Agent 处理器能力接口,每种 AgentType 一个实现
// 引擎只依赖这个契约,不关心处理器内部
type Agent interface {
	Execute(subTask *types.SubTask) (string, error)
}

// Registry 按能力类型查找处理器
type Registry struct {
	agents map[types.AgentType]Agent
}

// NewRegistry 创建注册表并装配默认处理器
func NewRegistry() *Registry {
	return &Registry{agents: map[types.AgentType]Agent{
		types.AgentTypeDoc:        &DocAgent{},
		types.AgentTypeComms:      &CommsAgent{},
		types.AgentTypePMO:        &PMOAgent{},
		types.AgentTypeData:       &DataAgent{},
		types.AgentTypeCompliance: &ComplianceAgent{},
	}}
}

// Register 注册或替换处理器
func (r *Registry) Register(agentType types.AgentType, a Agent) {
	r.agents[agentType] = a
}

// Lookup 按能力类型查找处理器
func (r *Registry) Lookup(agentType types.AgentType) (Agent, error) {
	a, ok := r.agents[agentType]
	if !ok {
		return nil, fmt.Errorf("no agent registered for type %s", agentType)
	}
	return a, nil
}
