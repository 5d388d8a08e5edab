package risk

import (
	"testing"

	"github.com/mautops/officeflow/internal/types"
	"github.com/stretchr/testify/assert"
)

// TestFindingsClean 无风险输入时没有任何发现
func TestFindingsClean(t *testing.T) {
	findings := Findings("일반적인 문서 작성 요청")
	assert.Empty(t, findings)
	assert.Equal(t, types.RiskLevelLow, FindingsLevel("일반적인 문서 작성 요청"))
}

// TestFindingsPII 各类 PII 模式分别产生一条发现
func TestFindingsPII(t *testing.T) {
	findings := Findings("주민등록번호 123456-1234567, 연락처 010-1234-5678, 메일 a@b.com")

	assert.NotEmpty(t, findings)
	joined := ""
	for _, f := range findings {
		joined += f
	}
	assert.Contains(t, joined, "주민등록번호")
	assert.Contains(t, joined, "전화번호")
	assert.Contains(t, joined, "이메일")
}

// TestFindingsCardNumber 卡号模式只存在于合规路径
func TestFindingsCardNumber(t *testing.T) {
	findings := Findings("결제 카드 1234-5678-9012-3456")

	assert.Contains(t, findings, "개인정보(카드번호)가 포함되어 있습니다.")
}

// TestFindingsLevelPrecedence 合规路径的等级推导优先级与入库路径不同
func TestFindingsLevelPrecedence(t *testing.T) {
	// 保安发现优先于一切
	assert.Equal(t, types.RiskLevelCritical, FindingsLevel("기밀 자료와 개인정보 포함"))
	// 其次是个人信息
	assert.Equal(t, types.RiskLevelHigh, FindingsLevel("개인정보 123456-1234567"))
	// 再次是对外发送
	assert.Equal(t, types.RiskLevelHigh, FindingsLevel("대외 공문 발송"))
}

// TestClassifierDivergence 两条分类路径刻意保持独立
// 英文 external 关键词只被合规路径识别,入库路径只认韩文关键词
func TestClassifierDivergence(t *testing.T) {
	input := "share this with external partners"

	intakeTags := DetectTags(input)
	assert.Empty(t, intakeTags)

	assert.Equal(t, types.RiskLevelHigh, FindingsLevel(input))
}
