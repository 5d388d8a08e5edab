package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mautops/officeflow/internal/model"
	"github.com/mautops/officeflow/internal/types"
	"gorm.io/gorm"
)

// gormAuditLogRepository 基于数据库的审计账本仓储
type gormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建数据库审计账本仓储
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &gormAuditLogRepository{db: db}
}

// Append 追加一条记录
func (r *gormAuditLogRepository) Append(ctx context.Context, entry *types.AuditLogEntry) error {
	alm, err := encodeAuditLogEntry(entry)
	if err != nil {
		return err
	}
	if err := alm.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(alm).Error
}

// ListByTask 返回指定任务的全部记录,按追加序号升序
func (r *gormAuditLogRepository) ListByTask(ctx context.Context, taskID string) ([]*types.AuditLogEntry, error) {
	var models []*model.AuditLogModel
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return decodeAuditLogEntries(models)
}

// List 偏移分页,按追加序号升序
func (r *gormAuditLogRepository) List(ctx context.Context, offset, limit int) ([]*types.AuditLogEntry, error) {
	if offset < 0 {
		offset = 0
	}
	query := r.db.WithContext(ctx).Order("seq ASC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []*model.AuditLogModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return decodeAuditLogEntries(models)
}

// encodeAuditLogEntry 将账本记录编码为数据模型
func encodeAuditLogEntry(entry *types.AuditLogEntry) (*model.AuditLogModel, error) {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit details: %w", err)
	}
	return &model.AuditLogModel{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		Event:     entry.Event,
		UserID:    entry.User,
		Details:   details,
		Seq:       entry.Seq,
		CreatedAt: entry.Timestamp,
	}, nil
}

// decodeAuditLogEntries 从数据模型还原账本记录
func decodeAuditLogEntries(models []*model.AuditLogModel) ([]*types.AuditLogEntry, error) {
	entries := make([]*types.AuditLogEntry, 0, len(models))
	for _, alm := range models {
		entry := &types.AuditLogEntry{
			ID:        alm.ID,
			Seq:       alm.Seq,
			Timestamp: alm.CreatedAt,
			TaskID:    alm.TaskID,
			Event:     alm.Event,
			User:      alm.UserID,
		}
		if len(alm.Details) > 0 {
			if err := json.Unmarshal(alm.Details, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details %s: %w", alm.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
