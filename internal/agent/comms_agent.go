package agent

import (
	"fmt"
	"strings"

	"github.com/mautops/officeflow/internal/types"
)

// CommsAgent 沟通处理器,生成邮件、公告或通用沟通文案
type CommsAgent struct{}

// Execute 生成沟通内容
func (a *CommsAgent) Execute(subTask *types.SubTask) (string, error) {
	input := subTask.Input

	if strings.Contains(input, "메일") || strings.Contains(input, "email") {
		return a.email(input), nil
	}
	if strings.Contains(input, "공지") || strings.Contains(input, "notice") {
		return a.notice(input), nil
	}
	return a.communication(input), nil
}

func (a *CommsAgent) email(input string) string {
	return fmt.Sprintf("제목: [자동생성] 업무 관련 안내\n\n안녕하세요,\n\n%s\n\n감사합니다.\n\n---\n본 메일은 AI 업무 자동화 시스템에 의해 생성되었습니다.", input)
}

func (a *CommsAgent) notice(input string) string {
	return fmt.Sprintf("【공지】업무 안내\n\n%s\n\n---\n공지일: %s", input, timestamp())
}

func (a *CommsAgent) communication(input string) string {
	return fmt.Sprintf("[커뮤니케이션]\n\n%s\n\n---\n생성일: %s", input, timestamp())
}
