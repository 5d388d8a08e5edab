package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/mautops/officeflow/internal/types"
)

// memoryTaskRepository 内存任务仓储
// 存储的实体不外泄: 出入仓储均做深拷贝,Update 在锁内对副本执行 mutate,
// 成功才落库,与 gorm 实现的事务回滚语义一致
type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*types.Task
	order []string
}

// NewMemoryTaskRepository 创建内存任务仓储
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{tasks: make(map[string]*types.Task)}
}

// Create 保存新任务
func (r *memoryTaskRepository) Create(ctx context.Context, task *types.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		r.order = append(r.order, task.ID)
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

// Get 根据 ID 查找任务
func (r *memoryTaskRepository) Get(ctx context.Context, id string) (*types.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return task.Clone(), nil
}

// List 按创建顺序返回所有任务
func (r *memoryTaskRepository) List(ctx context.Context) ([]*types.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*types.Task, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.tasks[id].Clone())
	}
	return result, nil
}

// Update 在写锁内对副本执行读-改-写,mutate 出错时不落库
func (r *memoryTaskRepository) Update(ctx context.Context, id string, mutate func(*types.Task) error) (*types.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	draft := task.Clone()
	if err := mutate(draft); err != nil {
		return nil, err
	}
	r.tasks[id] = draft
	return draft.Clone(), nil
}

// memoryApprovalRepository 内存审批请求仓储
type memoryApprovalRepository struct {
	mu       sync.RWMutex
	requests map[string]*types.ApprovalRequest
	order    []string
}

// NewMemoryApprovalRepository 创建内存审批请求仓储
func NewMemoryApprovalRepository() ApprovalRequestRepository {
	return &memoryApprovalRepository{requests: make(map[string]*types.ApprovalRequest)}
}

// Create 保存新审批请求
func (r *memoryApprovalRepository) Create(ctx context.Context, request *types.ApprovalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; !ok {
		r.order = append(r.order, request.ID)
	}
	r.requests[request.ID] = request.Clone()
	return nil
}

// Get 根据 ID 查找审批请求
func (r *memoryApprovalRepository) Get(ctx context.Context, id string) (*types.ApprovalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return request.Clone(), nil
}

// ListByStatus 按状态过滤,创建顺序返回
func (r *memoryApprovalRepository) ListByStatus(ctx context.Context, status types.ApprovalStatus) ([]*types.ApprovalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*types.ApprovalRequest
	for _, id := range r.order {
		if r.requests[id].Status == status {
			result = append(result, r.requests[id].Clone())
		}
	}
	return result, nil
}

// Update 在写锁内对副本执行读-改-写,mutate 出错时不落库
// 两个调用方同时决议同一请求时,后到者在锁内看到已决议状态
func (r *memoryApprovalRepository) Update(ctx context.Context, id string, mutate func(*types.ApprovalRequest) error) (*types.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	draft := request.Clone()
	if err := mutate(draft); err != nil {
		return nil, err
	}
	r.requests[id] = draft
	return draft.Clone(), nil
}

// memoryAuditLogRepository 内存审计账本仓储,只追加
type memoryAuditLogRepository struct {
	mu      sync.RWMutex
	entries []*types.AuditLogEntry
}

// NewMemoryAuditLogRepository 创建内存审计账本仓储
func NewMemoryAuditLogRepository() AuditLogRepository {
	return &memoryAuditLogRepository{}
}

// Append 追加一条记录
func (r *memoryAuditLogRepository) Append(ctx context.Context, entry *types.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// ListByTask 返回指定任务的全部记录,保持追加顺序
func (r *memoryAuditLogRepository) ListByTask(ctx context.Context, taskID string) ([]*types.AuditLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*types.AuditLogEntry
	for _, entry := range r.entries {
		if entry.TaskID == taskID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// List 偏移分页,按追加序号排序
func (r *memoryAuditLogRepository) List(ctx context.Context, offset, limit int) ([]*types.AuditLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]*types.AuditLogEntry, len(r.entries))
	copy(sorted, r.entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}
