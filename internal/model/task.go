package model

import (
	"errors"
	"time"
)

// TaskModel 任务数据模型
// Data 为序列化后的完整任务聚合,索引列从聚合中冗余提取
type TaskModel struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)"`
	Type        string     `gorm:"type:varchar(32);not null;index"` // 任务类型
	State       string     `gorm:"type:varchar(32);not null;index"` // 任务状态
	RiskLevel   string     `gorm:"type:varchar(32);not null;index"` // 聚合风险等级
	Requester   string     `gorm:"type:varchar(64);index"`          // 请求人
	AuditLogID  string     `gorm:"type:varchar(64);index"`          // 审计账本 ID
	Data        []byte     `gorm:"type:jsonb;not null"`             // 序列化后的 Task 对象
	CreatedAt   time.Time  `gorm:"not null;index"`
	UpdatedAt   time.Time  `gorm:"not null;index"`
	CompletedAt *time.Time `gorm:"index"` // 完成时间
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.ID == "" {
		return errors.New("task ID is required")
	}
	if tm.Type == "" {
		return errors.New("task type is required")
	}
	if tm.State == "" {
		return errors.New("task state is required")
	}
	if len(tm.Data) == 0 {
		return errors.New("task data is required")
	}
	return nil
}
