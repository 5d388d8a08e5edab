package types

import "time"

// TaskType 任务类型
type TaskType string

const (
	TaskTypeMeeting  TaskType = "meeting"
	TaskTypeDocument TaskType = "document"
	TaskTypeEmail    TaskType = "email"
	TaskTypeSchedule TaskType = "schedule"
	TaskTypeData     TaskType = "data"
	TaskTypeApproval TaskType = "approval"
)

// TaskState 任务状态
type TaskState string

const (
	TaskStateDraft            TaskState = "draft"
	TaskStateReview           TaskState = "review"
	TaskStateApprovalRequired TaskState = "approval_required"
	TaskStateApproved         TaskState = "approved"
	TaskStateCompleted        TaskState = "completed"
	TaskStateArchived         TaskState = "archived"
)

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "r0_low"
	RiskLevelMedium   RiskLevel = "r1_medium"
	RiskLevelHigh     RiskLevel = "r2_high"
	RiskLevelCritical RiskLevel = "r3_critical"
)

// Severity 返回风险等级的数值序,用于比较和取最大值
func (l RiskLevel) Severity() int {
	switch l {
	case RiskLevelCritical:
		return 3
	case RiskLevelHigh:
		return 2
	case RiskLevelMedium:
		return 1
	default:
		return 0
	}
}

// MaxRiskLevel 返回两个风险等级中较高的一个
func MaxRiskLevel(a, b RiskLevel) RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// RiskCategory 风险标签类别
type RiskCategory string

const (
	RiskCategoryExternal     RiskCategory = "external"
	RiskCategoryPersonalInfo RiskCategory = "personal_info"
	RiskCategorySecurity     RiskCategory = "security"
	RiskCategoryContract     RiskCategory = "contract"
	RiskCategoryBudget       RiskCategory = "budget"
)

// AgentType 执行子任务的处理器能力类型
type AgentType string

const (
	AgentTypeOrchestrator AgentType = "orchestrator"
	AgentTypeDoc          AgentType = "doc"
	AgentTypeComms        AgentType = "comms"
	AgentTypePMO          AgentType = "pmo"
	AgentTypeData         AgentType = "data"
	AgentTypeResearch     AgentType = "research"
	AgentTypeCompliance   AgentType = "compliance"
	AgentTypeOps          AgentType = "ops"
)

// ApprovalStatus 审批请求状态
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	// ApprovalStatusTimeout 预留状态,当前没有任何代码路径会产生它
	ApprovalStatusTimeout ApprovalStatus = "timeout"
)

// RiskTag 在任务内容中检测到的风险信号
type RiskTag struct {
	Category    RiskCategory `json:"type"`
	Level       RiskLevel    `json:"level"`
	Description string       `json:"description"`
}

// TaskMetadata 任务元数据
type TaskMetadata struct {
	Requester    string    `json:"requester"`
	Approver     string    `json:"approver,omitempty"`
	RulesVersion string    `json:"rulesVersion"`
	TemplateID   string    `json:"templateId,omitempty"`
	PolicyTags   []string  `json:"policyTags,omitempty"`
	RiskTags     []RiskTag `json:"riskTags"`
	AuditLogID   string    `json:"auditLogId"`
}

// SubTask 委派给单个处理器能力的工作单元
type SubTask struct {
	ID           string    `json:"id"`
	AgentType    AgentType `json:"agentType"`
	Status       TaskState `json:"status"`
	Input        string    `json:"input"`
	Output       string    `json:"output,omitempty"`
	Dependencies []string  `json:"dependencies"`
}

// Task 经过生命周期状态机的工作单元
// 由引擎独占持有,创建后只能由工作流状态机和编排器修改
type Task struct {
	ID          string       `json:"id"`
	Type        TaskType     `json:"type"`
	State       TaskState    `json:"state"`
	RiskLevel   RiskLevel    `json:"riskLevel"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Input       string       `json:"input"`
	Output      string       `json:"output,omitempty"`
	Metadata    TaskMetadata `json:"metadata"`
	SubTasks    []*SubTask   `json:"subTasks"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// Clone 返回深拷贝,切片和指针字段均与原对象独立
func (t *Task) Clone() *Task {
	dup := *t
	dup.Metadata.PolicyTags = append([]string(nil), t.Metadata.PolicyTags...)
	dup.Metadata.RiskTags = append([]RiskTag(nil), t.Metadata.RiskTags...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		dup.CompletedAt = &at
	}
	if t.SubTasks != nil {
		dup.SubTasks = make([]*SubTask, len(t.SubTasks))
		for i, st := range t.SubTasks {
			stCopy := *st
			stCopy.Dependencies = append([]string(nil), st.Dependencies...)
			dup.SubTasks[i] = &stCopy
		}
	}
	return &dup
}

// HasRiskCategory 判断任务是否带有指定类别的风险标签
func (t *Task) HasRiskCategory(category RiskCategory) bool {
	for _, tag := range t.Metadata.RiskTags {
		if tag.Category == category {
			return true
		}
	}
	return false
}

// FindSubTask 根据 ID 查找子任务,未找到返回 nil
func (t *Task) FindSubTask(id string) *SubTask {
	for _, st := range t.SubTasks {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// ApprovalRequest 阻塞高风险任务推进的人工审批请求
type ApprovalRequest struct {
	ID              string         `json:"id"`
	TaskID          string         `json:"taskId"`
	Action          string         `json:"action"`
	Target          string         `json:"target"`
	Scope           string         `json:"scope"`
	Justification   string         `json:"justification"`
	RiskSummary     string         `json:"riskSummary"`
	Alternatives    []string       `json:"alternatives"`
	RequestedAt     time.Time      `json:"requestedAt"`
	ResolvedAt      *time.Time     `json:"resolvedAt,omitempty"`
	ResolvedBy      string         `json:"resolvedBy,omitempty"`
	Status          ApprovalStatus `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// Clone 返回深拷贝
func (r *ApprovalRequest) Clone() *ApprovalRequest {
	dup := *r
	dup.Alternatives = append([]string(nil), r.Alternatives...)
	if r.ResolvedAt != nil {
		at := *r.ResolvedAt
		dup.ResolvedAt = &at
	}
	return &dup
}

// AuditLogEntry 审计账本中的一条不可变记录
// Seq 为账本分配的追加序号,仅用于持久化排序
type AuditLogEntry struct {
	ID        string                 `json:"id"`
	Seq       int64                  `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	TaskID    string                 `json:"taskId,omitempty"`
	Event     string                 `json:"event"`
	User      string                 `json:"user"`
	Details   map[string]interface{} `json:"details"`
}
