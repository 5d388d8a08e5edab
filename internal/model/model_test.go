package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTaskModelValidate 测试任务模型校验
func TestTaskModelValidate(t *testing.T) {
	valid := &TaskModel{
		ID:        "task-001",
		Type:      "meeting",
		State:     "draft",
		RiskLevel: "r0_low",
		Data:      []byte(`{}`),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&TaskModel{Type: "meeting", State: "draft", Data: []byte(`{}`)}).Validate())
	assert.Error(t, (&TaskModel{ID: "task-001", State: "draft", Data: []byte(`{}`)}).Validate())
	assert.Error(t, (&TaskModel{ID: "task-001", Type: "meeting", Data: []byte(`{}`)}).Validate())
	assert.Error(t, (&TaskModel{ID: "task-001", Type: "meeting", State: "draft"}).Validate())
}

// TestApprovalRequestModelValidate 测试审批请求模型校验
func TestApprovalRequestModelValidate(t *testing.T) {
	valid := &ApprovalRequestModel{
		ID:          "req-001",
		TaskID:      "task-001",
		Status:      "pending",
		Data:        []byte(`{}`),
		RequestedAt: time.Now(),
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&ApprovalRequestModel{TaskID: "task-001", Status: "pending", Data: []byte(`{}`)}).Validate())
	assert.Error(t, (&ApprovalRequestModel{ID: "req-001", Status: "pending", Data: []byte(`{}`)}).Validate())
	assert.Error(t, (&ApprovalRequestModel{ID: "req-001", TaskID: "task-001", Data: []byte(`{}`)}).Validate())
}

// TestAuditLogModelValidate 测试审计账本模型校验
func TestAuditLogModelValidate(t *testing.T) {
	valid := &AuditLogModel{
		ID:        "log-001",
		Event:     "TASK_CREATED",
		UserID:    "system",
		CreatedAt: time.Now(),
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&AuditLogModel{Event: "TASK_CREATED", UserID: "system"}).Validate())
	assert.Error(t, (&AuditLogModel{ID: "log-001", UserID: "system"}).Validate())
	assert.Error(t, (&AuditLogModel{ID: "log-001", Event: "TASK_CREATED"}).Validate())
}

// TestTableNames 测试表名约定
func TestTableNames(t *testing.T) {
	assert.Equal(t, "tasks", TaskModel{}.TableName())
	assert.Equal(t, "approval_requests", ApprovalRequestModel{}.TableName())
	assert.Equal(t, "audit_logs", AuditLogModel{}.TableName())
}
