package agent

import (
	"fmt"
	"strings"

	"github.com/mautops/officeflow/internal/risk"
	"github.com/mautops/officeflow/internal/types"
)

// ComplianceAgent 合规处理器,对子任务输入做独立的风险复查
// 复用合规检测路径,与入口分类器保持各自独立的判定逻辑
type ComplianceAgent struct{}

// Execute 生成合规审查报告
func (a *ComplianceAgent) Execute(subTask *types.SubTask) (string, error) {
	findings := risk.Findings(subTask.Input)

	if len(findings) == 0 {
		return fmt.Sprintf("## Compliance Review\n\n✅ 검토 완료: 위험 요소가 발견되지 않았습니다.\n\n검토일: %s", timestamp()), nil
	}

	var sb strings.Builder
	sb.WriteString("## Compliance Review\n\n⚠️ 발견된 위험 요소:\n")
	for _, f := range findings {
		sb.WriteString("- ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString("\n---\n권고사항: 승인 게이트를 통과해야 합니다.\n검토일: ")
	sb.WriteString(timestamp())
	return sb.String(), nil
}
