package metrics

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mautops/officeflow/internal/repository"
)

// Collector 指标收集器,定期刷新状态分布与数据库连接指标
type Collector struct {
	db       *gorm.DB
	tasks    repository.TaskRepository
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	started  bool
}

// NewCollector 创建指标收集器,db 为 nil 时跳过连接数指标
func NewCollector(db *gorm.DB, tasks repository.TaskRepository, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		tasks:    tasks,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.collect()
}

// Stop 停止指标收集器,未启动时直接返回
func (c *Collector) Stop() {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	c.cancel()
	if started {
		<-c.done
	}
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if c.db != nil {
				_ = UpdateDatabaseConnections(c.db)
			}
			c.updateStateDistribution()
		}
	}
}

// updateStateDistribution 统计各状态任务数并刷新指标
func (c *Collector) updateStateDistribution() {
	if c.tasks == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
	defer cancel()

	all, err := c.tasks.List(ctx)
	if err != nil {
		return
	}

	counts := make(map[string]float64)
	for _, t := range all {
		counts[string(t.State)]++
	}
	for state, count := range counts {
		UpdateTasksByState(state, count)
	}
}
