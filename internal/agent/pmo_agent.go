package agent

import (
	"fmt"
	"strings"

	"github.com/mautops/officeflow/internal/types"
)

// PMOAgent 项目管理处理器,生成日程、行动项或任务计划
type PMOAgent struct{}

// Execute 生成项目管理产出
func (a *PMOAgent) Execute(subTask *types.SubTask) (string, error) {
	input := subTask.Input

	if strings.Contains(input, "일정") || strings.Contains(input, "schedule") {
		return a.schedule(input), nil
	}
	if strings.Contains(input, "액션") || strings.Contains(input, "action") {
		return a.actionItems(input), nil
	}
	return a.taskPlan(input), nil
}

func (a *PMOAgent) schedule(input string) string {
	return fmt.Sprintf("## 일정 초안\n\n제목: (자동 생성된 일정 제목)\n일시: %s\n내용: %s\n\n참석자: (추천 참석자 목록)\n\n---\n*일정 등록은 승인 후 진행됩니다.*", timestamp(), input)
}

func (a *PMOAgent) actionItems(input string) string {
	return fmt.Sprintf("## 액션 아이템\n\n%s\n\n### 추출된 액션 아이템:\n1. [ ] 액션 아이템 1 (담당자 미지정)\n2. [ ] 액션 아이템 2 (담당자 미지정)\n3. [ ] 액션 아이템 3 (담당자 미지정)\n\n---\n마감일: (자동 계산된 마감일)", input)
}

func (a *PMOAgent) taskPlan(input string) string {
	return fmt.Sprintf("## 업무 계획\n\n%s\n\n### 단계별 계획:\n1. 1단계: (자동 생성된 단계)\n2. 2단계: (자동 생성된 단계)\n3. 3단계: (자동 생성된 단계)\n\n---\n생성일: %s", input, timestamp())
}
