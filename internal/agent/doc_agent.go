package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/mautops/officeflow/internal/types"
)

// DocAgent 文档处理器,按输入关键词选择会议纪要、报告或通用文档格式
type DocAgent struct{}

// Execute 生成文档内容
func (a *DocAgent) Execute(subTask *types.SubTask) (string, error) {
	input := subTask.Input

	if strings.Contains(input, "회의록") || strings.Contains(input, "meeting minutes") {
		return a.meetingMinutes(input), nil
	}
	if strings.Contains(input, "보고서") || strings.Contains(input, "report") {
		return a.report(input), nil
	}
	return a.generalDocument(input), nil
}

func (a *DocAgent) meetingMinutes(input string) string {
	return fmt.Sprintf("# 회의록\n\n## 개요\n%s\n\n## 결정사항\n- (자동 추출된 결정사항)\n\n## 후속조치\n- (자동 추출된 액션아이템)\n\n작성일: %s", input, timestamp())
}

func (a *DocAgent) report(input string) string {
	return fmt.Sprintf("# 업무 보고서\n\n## 요약\n%s\n\n## 상세 내용\n- (자동 생성된 상세 내용)\n\n## 결론\n- (자동 생성된 결론)\n\n작성일: %s", input, timestamp())
}

func (a *DocAgent) generalDocument(input string) string {
	return fmt.Sprintf("# 문서\n\n%s\n\n---\n생성일: %s", input, timestamp())
}

// timestamp 统一的产出时间戳格式
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
