package risk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mautops/officeflow/internal/types"
)

// 合规审查路径使用的 PII 正则,比入库路径多一条卡号模式
var compliancePIIPatterns = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`\d{6}-\d{7}`), "주민등록번호"},
	{regexp.MustCompile(`\d{3}-\d{4}-\d{4}`), "전화번호"},
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "이메일"},
	{regexp.MustCompile(`\d{4}-\d{4}-\d{4}-\d{4}`), "카드번호"},
}

var (
	complianceSecurityKeywords = []string{"보안", "비밀", "기밀", "confidential", "secret", "classified"}
	complianceExternalKeywords = []string{"외부", "대외", "external", "outside", "public"}
)

// Findings 合规审查路径的分类器,产出自然语言描述的风险发现
//
// 注意: 这与入库路径的 Classify 是两套刻意独立的算法,输入形态不同
// (原始子任务文本 vs 工具调用输出),风险等级推导的优先级也不同,
// 调用方各自依赖其确切行为,不要合并
func Findings(input string) []string {
	var findings []string
	findings = append(findings, piiFindings(input)...)
	findings = append(findings, securityFindings(input)...)
	findings = append(findings, externalFindings(input)...)
	return findings
}

// FindingsLevel 根据发现文本推导风险等级
// 优先级: 保安文本 > 个人信息文本 > 对外发送文本 > Low
func FindingsLevel(input string) types.RiskLevel {
	findings := Findings(input)

	for _, f := range findings {
		if strings.Contains(f, "보안") {
			return types.RiskLevelCritical
		}
	}
	for _, f := range findings {
		if strings.Contains(f, "개인정보") {
			return types.RiskLevelHigh
		}
	}
	for _, f := range findings {
		if strings.Contains(f, "대외") {
			return types.RiskLevelHigh
		}
	}

	return types.RiskLevelLow
}

func piiFindings(input string) []string {
	var findings []string

	for _, entry := range compliancePIIPatterns {
		if entry.pattern.MatchString(input) {
			findings = append(findings, fmt.Sprintf("개인정보(%s)가 포함되어 있습니다.", entry.label))
		}
	}

	if strings.Contains(input, "주민등록") || strings.Contains(input, "개인정보") {
		findings = append(findings, "개인정보 관련 키워드가 포함되어 있습니다.")
	}

	return findings
}

func securityFindings(input string) []string {
	lower := strings.ToLower(input)
	for _, kw := range complianceSecurityKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return []string{fmt.Sprintf("보안 관련 키워드(%q)가 포함되어 있습니다.", kw)}
		}
	}
	return nil
}

func externalFindings(input string) []string {
	lower := strings.ToLower(input)
	for _, kw := range complianceExternalKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return []string{fmt.Sprintf("대외 발신 가능성이 감지되었습니다(%q).", kw)}
		}
	}
	return nil
}
