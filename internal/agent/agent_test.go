package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mautops/officeflow/internal/types"
)

// TestRegistryLookup 测试注册表按能力类型查找处理器
func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	for _, at := range []types.AgentType{
		types.AgentTypeDoc,
		types.AgentTypeComms,
		types.AgentTypePMO,
		types.AgentTypeData,
		types.AgentTypeCompliance,
	} {
		a, err := r.Lookup(at)
		require.NoError(t, err)
		assert.NotNil(t, a)
	}

	// 未注册的能力类型返回错误
	_, err := r.Lookup(types.AgentTypeResearch)
	assert.Error(t, err)
}

// TestRegistryRegisterOverride 测试注册可以替换已有处理器
func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry()
	custom := &DocAgent{}
	r.Register(types.AgentTypeResearch, custom)

	a, err := r.Lookup(types.AgentTypeResearch)
	require.NoError(t, err)
	assert.Same(t, custom, a)
}

// TestDocAgentMeetingMinutes 测试文档处理器生成会议纪要
func TestDocAgentMeetingMinutes(t *testing.T) {
	a := &DocAgent{}
	out, err := a.Execute(&types.SubTask{Input: "Generate meeting minutes from: 주간 회의"})
	require.NoError(t, err)
	assert.Contains(t, out, "# 회의록")
	assert.Contains(t, out, "주간 회의")
}

// TestDocAgentReport 测试文档处理器生成报告
func TestDocAgentReport(t *testing.T) {
	a := &DocAgent{}
	out, err := a.Execute(&types.SubTask{Input: "Create report from analysis"})
	require.NoError(t, err)
	assert.Contains(t, out, "# 업무 보고서")
}

// TestDocAgentGeneralFallback 测试无关键词时回退到通用文档
func TestDocAgentGeneralFallback(t *testing.T) {
	a := &DocAgent{}
	out, err := a.Execute(&types.SubTask{Input: "일반 내용"})
	require.NoError(t, err)
	assert.Contains(t, out, "# 문서")
	assert.Contains(t, out, "일반 내용")
}

// TestCommsAgentEmail 测试沟通处理器生成邮件
func TestCommsAgentEmail(t *testing.T) {
	a := &CommsAgent{}
	out, err := a.Execute(&types.SubTask{Input: "Draft email: 고객 안내 메일"})
	require.NoError(t, err)
	assert.Contains(t, out, "제목: [자동생성] 업무 관련 안내")
	assert.Contains(t, out, "고객 안내 메일")
}

// TestCommsAgentNotice 测试沟通处理器生成公告
func TestCommsAgentNotice(t *testing.T) {
	a := &CommsAgent{}
	out, err := a.Execute(&types.SubTask{Input: "전체 공지 작성"})
	require.NoError(t, err)
	assert.Contains(t, out, "【공지】업무 안내")
}

// TestPMOAgentSchedule 测试项目管理处理器生成日程
func TestPMOAgentSchedule(t *testing.T) {
	a := &PMOAgent{}
	out, err := a.Execute(&types.SubTask{Input: "Propose schedule for: 워크숍"})
	require.NoError(t, err)
	assert.Contains(t, out, "## 일정 초안")
	assert.Contains(t, out, "워크숍")
}

// TestPMOAgentActionItems 测试项目管理处理器提取行动项
func TestPMOAgentActionItems(t *testing.T) {
	a := &PMOAgent{}
	out, err := a.Execute(&types.SubTask{Input: "Extract action items from: 회의 내용"})
	require.NoError(t, err)
	assert.Contains(t, out, "## 액션 아이템")
}

// TestDataAgentAnalysis 测试数据处理器生成分析结果
func TestDataAgentAnalysis(t *testing.T) {
	a := &DataAgent{}
	out, err := a.Execute(&types.SubTask{Input: "Run analysis on: 매출 데이터"})
	require.NoError(t, err)
	assert.Contains(t, out, "## 데이터 분석 결과")
	assert.Contains(t, out, "매출 데이터")
}

// TestDataAgentAggregate 测试数据处理器生成集计结果
func TestDataAgentAggregate(t *testing.T) {
	a := &DataAgent{}
	out, err := a.Execute(&types.SubTask{Input: "월별 집계 요청"})
	require.NoError(t, err)
	assert.Contains(t, out, "## 데이터 집계 결과")
}

// TestComplianceAgentClean 测试合规处理器对无风险输入的产出
func TestComplianceAgentClean(t *testing.T) {
	a := &ComplianceAgent{}
	out, err := a.Execute(&types.SubTask{Input: "일반 업무 처리"})
	require.NoError(t, err)
	assert.Contains(t, out, "위험 요소가 발견되지 않았습니다")
}

// TestComplianceAgentFindings 测试合规处理器列出发现的风险
func TestComplianceAgentFindings(t *testing.T) {
	a := &ComplianceAgent{}
	out, err := a.Execute(&types.SubTask{Input: "주민등록번호 123456-1234567 포함 보안 문서"})
	require.NoError(t, err)
	assert.Contains(t, out, "⚠️ 발견된 위험 요소:")
	assert.Contains(t, out, "주민등록번호")
	assert.Contains(t, out, "승인 게이트를 통과해야 합니다")
}
