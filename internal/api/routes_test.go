package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mautops/officeflow/internal/agent"
	"github.com/mautops/officeflow/internal/approval"
	"github.com/mautops/officeflow/internal/audit"
	"github.com/mautops/officeflow/internal/config"
	"github.com/mautops/officeflow/internal/orchestrator"
	"github.com/mautops/officeflow/internal/policy"
	"github.com/mautops/officeflow/internal/repository"
	"github.com/mautops/officeflow/internal/service"
	"github.com/mautops/officeflow/internal/types"
	"github.com/mautops/officeflow/internal/workflow"
)

// newTestRouter 装配内存存储的完整路由
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	ledger := audit.NewLedger(repository.NewMemoryAuditLogRepository(), logger)
	approvals := approval.NewService(repository.NewMemoryApprovalRepository(), ledger)
	taskService := service.NewTaskService(
		repository.NewMemoryTaskRepository(),
		policy.NewEngine(nil, nil),
		orchestrator.NewPlanner(),
		workflow.NewStateMachine(),
		agent.NewRegistry(),
		approvals,
		ledger,
		logger,
	)

	cfg := config.Default()
	return SetupRoutes(cfg, nil, taskService, approvals, service.NewAuditQueryService(ledger))
}

// doJSON 发送 JSON 请求并解析统一响应
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// TestHealthEndpoint 测试健康检查端点
func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp["status"])
}

// TestMetricsEndpoint 测试指标端点
func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// 先产生一次请求, 让计数器带上标签后再抓取
	warm := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "api_requests_total")
}

// TestNoRouteReturnsJSON 测试未匹配路由返回 JSON 404
func TestNoRouteReturnsJSON(t *testing.T) {
	router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodGet, "/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(404), resp["code"])
}

// TestRequestIDHeader 测试响应携带请求 ID
func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestCreateTaskEndpoint 测试任务受理端点
func TestCreateTaskEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/tasks", gin.H{
		"title":     "주간 회의록",
		"input":     "주간 회의 내용 정리해줘",
		"requester": "user@corp.kr",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, string(types.TaskTypeMeeting), data["type"])
	assert.Equal(t, string(types.TaskStateDraft), data["state"])
	assert.NotEmpty(t, data["id"])
}

// TestCreateTaskValidation 测试缺少必填字段时返回 400
func TestCreateTaskValidation(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/tasks", gin.H{
		"title": "제목만 있음",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetTaskNotFound 测试查询不存在的任务返回 404
func TestGetTaskNotFound(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestApprovalFlowOverHTTP 测试高风险任务经 HTTP 接口走完审批流
func TestApprovalFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// 受理高风险请求
	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/tasks", gin.H{
		"title":     "대외 메일",
		"input":     "대외 발신 메일 작성",
		"requester": "user@corp.kr",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := resp["data"].(map[string]interface{})["id"].(string)

	// DRAFT -> REVIEW
	w, resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/advance", taskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(types.TaskStateReview), resp["data"].(map[string]interface{})["state"])

	// 执行子任务后停在审批门禁
	w, resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/execute", taskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(types.TaskStateApprovalRequired), resp["data"].(map[string]interface{})["state"])

	// 查询待决审批
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/approvals/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := resp["data"].([]interface{})
	require.Len(t, pending, 1)
	requestID := pending[0].(map[string]interface{})["id"].(string)

	// 同意审批
	w, resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/approvals/%s/approve", requestID), gin.H{
		"approver": "manager@corp.kr",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(types.TaskStateApproved), resp["data"].(map[string]interface{})["state"])

	// 重复裁决返回 409
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/approvals/%s/approve", requestID), gin.H{
		"approver": "manager@corp.kr",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// APPROVED -> COMPLETED -> ARCHIVED
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/advance", taskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/archive", taskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(types.TaskStateArchived), resp["data"].(map[string]interface{})["state"])

	// 任务审计轨迹完整
	w, resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%s/audit", taskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := resp["data"].([]interface{})
	assert.GreaterOrEqual(t, len(entries), 5)
}

// TestArchiveBeforeCompletedConflict 测试未完成任务归档返回 409
func TestArchiveBeforeCompletedConflict(t *testing.T) {
	router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/tasks", gin.H{
		"title":     "문서",
		"input":     "문서 작성",
		"requester": "user@corp.kr",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := resp["data"].(map[string]interface{})["id"].(string)

	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/archive", taskID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestAuditListPagination 测试审计账本分页查询
func TestAuditListPagination(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 3; i++ {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/tasks", gin.H{
			"title":     "문서",
			"input":     "문서 작성",
			"requester": "user@corp.kr",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/audit?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"].([]interface{}), 2)

	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(2), pagination["page_size"])
}
