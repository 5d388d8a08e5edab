package model

import (
	"errors"
	"time"
)

// ApprovalRequestModel 审批请求数据模型
type ApprovalRequestModel struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)"`
	TaskID      string     `gorm:"type:varchar(64);not null;index"` // 所属任务 ID
	Status      string     `gorm:"type:varchar(32);not null;index"` // pending/approved/rejected/timeout
	Data        []byte     `gorm:"type:jsonb;not null"`             // 序列化后的 ApprovalRequest 对象
	RequestedAt time.Time  `gorm:"not null;index"`
	ResolvedAt  *time.Time `gorm:"index"` // 决议时间
	ResolvedBy  string     `gorm:"type:varchar(64);index"` // 决议人
}

// TableName 指定表名
func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

// Validate 验证审批请求模型
func (arm *ApprovalRequestModel) Validate() error {
	if arm.ID == "" {
		return errors.New("approval request ID is required")
	}
	if arm.TaskID == "" {
		return errors.New("task ID is required")
	}
	if arm.Status == "" {
		return errors.New("status is required")
	}
	if len(arm.Data) == 0 {
		return errors.New("approval request data is required")
	}
	return nil
}
