package container

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mautops/officeflow/internal/agent"
	"github.com/mautops/officeflow/internal/api"
	"github.com/mautops/officeflow/internal/approval"
	"github.com/mautops/officeflow/internal/audit"
	"github.com/mautops/officeflow/internal/config"
	"github.com/mautops/officeflow/internal/database"
	"github.com/mautops/officeflow/internal/metrics"
	"github.com/mautops/officeflow/internal/orchestrator"
	"github.com/mautops/officeflow/internal/policy"
	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/service"
	"github.com/mautops/officeflow/internal/workflow"
)

// Container 依赖注入容器
// 管理配置、存储、引擎与服务的装配
type Container struct {
	cfg         *config.Config
	logger      *logrus.Logger
	db          *gorm.DB
	taskService service.TaskService
	approvals   approval.Service
	auditQuery  service.AuditQueryService
	ledger      audit.Ledger
	collector   *metrics.Collector
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. 初始化存储: memory 驱动用内存仓储,其余走数据库
	var db *gorm.DB
	var taskRepo repository.TaskRepository
	var approvalRepo repository.ApprovalRequestRepository
	var auditRepo repository.AuditLogRepository

	if cfg.Database.Driver == "memory" {
		taskRepo = repository.NewMemoryTaskRepository()
		approvalRepo = repository.NewMemoryApprovalRepository()
		auditRepo = repository.NewMemoryAuditLogRepository()
	} else {
		// 带重试机制: 默认重试 3 次,初始间隔 1 秒,指数退避
		db, err = database.ConnectWithRetry(cfg.Database, 3, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		taskRepo = repository.NewTaskRepository(db)
		approvalRepo = repository.NewApprovalRepository(db)
		auditRepo = repository.NewAuditLogRepository(db)
	}

	// 3. 初始化审计账本与审批门禁
	ledger := audit.NewLedger(auditRepo, logger)
	approvals := approval.NewService(approvalRepo, ledger)

	// 4. 初始化引擎组件并装配任务服务
	taskService := service.NewTaskService(
		taskRepo,
		policy.NewEngine(nil, nil),
		orchestrator.NewPlanner(),
		workflow.NewStateMachine(),
		agent.NewRegistry(),
		approvals,
		ledger,
		logger,
	)

	// 5. 初始化指标收集器
	collector := metrics.NewCollector(db, taskRepo, 30*time.Second)

	return &Container{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		taskService: taskService,
		approvals:   approvals,
		auditQuery:  service.NewAuditQueryService(ledger),
		ledger:      ledger,
		collector:   collector,
	}, nil
}

// Config 获取配置
func (c *Container) Config() *config.Config {
	return c.cfg
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// DB 获取数据库连接,内存驱动下为 nil
func (c *Container) DB() *gorm.DB {
	return c.db
}

// TaskService 获取任务服务
func (c *Container) TaskService() service.TaskService {
	return c.taskService
}

// ApprovalService 获取审批门禁服务
func (c *Container) ApprovalService() approval.Service {
	return c.approvals
}

// AuditQueryService 获取审计查询服务
func (c *Container) AuditQueryService() service.AuditQueryService {
	return c.auditQuery
}

// Ledger 获取审计账本
func (c *Container) Ledger() audit.Ledger {
	return c.ledger
}

// Collector 获取指标收集器
func (c *Container) Collector() *metrics.Collector {
	return c.collector
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.collector != nil {
		c.collector.Stop()
	}

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
