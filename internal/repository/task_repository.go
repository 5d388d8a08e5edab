package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mautops/officeflow/internal/model"
	"github.com/mautops/officeflow/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTaskRepository 基于数据库的任务仓储
type gormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建数据库任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

// Create 保存新任务
func (r *gormTaskRepository) Create(ctx context.Context, task *types.Task) error {
	tm, err := encodeTask(task)
	if err != nil {
		return err
	}
	if err := tm.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(tm).Error
}

// Get 根据 ID 查找任务
func (r *gormTaskRepository) Get(ctx context.Context, id string) (*types.Task, error) {
	var tm model.TaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeTask(&tm)
}

// List 按创建时间返回所有任务
func (r *gormTaskRepository) List(ctx context.Context) ([]*types.Task, error) {
	var models []*model.TaskModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	tasks := make([]*types.Task, 0, len(models))
	for _, tm := range models {
		task, err := decodeTask(tm)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Update 在事务内以行锁执行读-改-写,防止并发丢失更新
func (r *gormTaskRepository) Update(ctx context.Context, id string, mutate func(*types.Task) error) (*types.Task, error) {
	var updated *types.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tm model.TaskModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&tm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		task, err := decodeTask(&tm)
		if err != nil {
			return err
		}
		if err := mutate(task); err != nil {
			return err
		}

		next, err := encodeTask(task)
		if err != nil {
			return err
		}
		if err := tx.Save(next).Error; err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// encodeTask 将任务聚合编码为数据模型
func encodeTask(task *types.Task) (*model.TaskModel, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return &model.TaskModel{
		ID:          task.ID,
		Type:        string(task.Type),
		State:       string(task.State),
		RiskLevel:   string(task.RiskLevel),
		Requester:   task.Metadata.Requester,
		AuditLogID:  task.Metadata.AuditLogID,
		Data:        data,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
	}, nil
}

// decodeTask 从数据模型还原任务聚合
func decodeTask(tm *model.TaskModel) (*types.Task, error) {
	var task types.Task
	if err := json.Unmarshal(tm.Data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %s: %w", tm.ID, err)
	}
	return &task, nil
}
