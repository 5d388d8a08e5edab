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

// gormApprovalRepository 基于数据库的审批请求仓储
type gormApprovalRepository struct {
	db *gorm.DB
}

// NewApprovalRepository 创建数据库审批请求仓储
func NewApprovalRepository(db *gorm.DB) ApprovalRequestRepository {
	return &gormApprovalRepository{db: db}
}

// Create 保存新审批请求
func (r *gormApprovalRepository) Create(ctx context.Context, request *types.ApprovalRequest) error {
	arm, err := encodeApprovalRequest(request)
	if err != nil {
		return err
	}
	if err := arm.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(arm).Error
}

// Get 根据 ID 查找审批请求
func (r *gormApprovalRepository) Get(ctx context.Context, id string) (*types.ApprovalRequest, error) {
	var arm model.ApprovalRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&arm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeApprovalRequest(&arm)
}

// ListByStatus 按状态过滤,请求时间升序
func (r *gormApprovalRepository) ListByStatus(ctx context.Context, status types.ApprovalStatus) ([]*types.ApprovalRequest, error) {
	var models []*model.ApprovalRequestModel
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("requested_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	requests := make([]*types.ApprovalRequest, 0, len(models))
	for _, arm := range models {
		request, err := decodeApprovalRequest(arm)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// Update 在事务内以行锁执行读-改-写
// 并发决议同一请求时,后到的事务在锁内看到已决议状态
func (r *gormApprovalRepository) Update(ctx context.Context, id string, mutate func(*types.ApprovalRequest) error) (*types.ApprovalRequest, error) {
	var updated *types.ApprovalRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var arm model.ApprovalRequestModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&arm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		request, err := decodeApprovalRequest(&arm)
		if err != nil {
			return err
		}
		if err := mutate(request); err != nil {
			return err
		}

		next, err := encodeApprovalRequest(request)
		if err != nil {
			return err
		}
		if err := tx.Save(next).Error; err != nil {
			return err
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// encodeApprovalRequest 将审批请求编码为数据模型
func encodeApprovalRequest(request *types.ApprovalRequest) (*model.ApprovalRequestModel, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal approval request: %w", err)
	}
	return &model.ApprovalRequestModel{
		ID:          request.ID,
		TaskID:      request.TaskID,
		Status:      string(request.Status),
		Data:        data,
		RequestedAt: request.RequestedAt,
		ResolvedAt:  request.ResolvedAt,
		ResolvedBy:  request.ResolvedBy,
	}, nil
}

// decodeApprovalRequest 从数据模型还原审批请求
func decodeApprovalRequest(arm *model.ApprovalRequestModel) (*types.ApprovalRequest, error) {
	var request types.ApprovalRequest
	if err := json.Unmarshal(arm.Data, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval request %s: %w", arm.ID, err)
	}
	return &request, nil
}
