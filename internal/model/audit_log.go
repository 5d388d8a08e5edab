package model

import (
	"errors"
	"time"
)

// AuditLogModel 审计账本数据模型,只追加,落库后不再修改或删除
type AuditLogModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	TaskID    string    `gorm:"type:varchar(64);index"`          // 关联任务 ID,会话级事件可为空
	Event     string    `gorm:"type:varchar(64);not null;index"` // 事件名
	UserID    string    `gorm:"type:varchar(64);not null;index"` // 操作人,自动步骤为 system
	Details   []byte    `gorm:"type:jsonb"`                      // 脱敏后的详情
	Seq       int64     `gorm:"not null;index"`                  // 追加序号,保证单任务内有序
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// Validate 验证审计账本模型
func (alm *AuditLogModel) Validate() error {
	if alm.ID == "" {
		return errors.New("audit log ID is required")
	}
	if alm.Event == "" {
		return errors.New("event is required")
	}
	if alm.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}
