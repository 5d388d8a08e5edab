package agent

import (
	"fmt"
	"strings"

	"github.com/mautops/officeflow/internal/types"
)

// DataAgent 数据处理器,生成集计、分析或通用处理结果
type DataAgent struct{}

// Execute 生成数据处理产出
func (a *DataAgent) Execute(subTask *types.SubTask) (string, error) {
	input := subTask.Input

	if strings.Contains(input, "집계") || strings.Contains(input, "aggregate") {
		return a.aggregate(input), nil
	}
	if strings.Contains(input, "분석") || strings.Contains(input, "analysis") {
		return a.analyze(input), nil
	}
	return a.process(input), nil
}

func (a *DataAgent) aggregate(input string) string {
	return fmt.Sprintf("## 데이터 집계 결과\n\n입력 데이터: %s\n\n### 집계 지표:\n- 총계: (자동 계산)\n- 평균: (자동 계산)\n- 최대값: (자동 계산)\n- 최소값: (자동 계산)\n\n---\n생성일: %s", input, timestamp())
}

func (a *DataAgent) analyze(input string) string {
	return fmt.Sprintf("## 데이터 분석 결과\n\n입력 데이터: %s\n\n### 분석 결과:\n- 주요 패턴: (자동 분석)\n- 이상치: (자동 탐지)\n- 추세: (자동 분석)\n\n---\n생성일: %s", input, timestamp())
}

func (a *DataAgent) process(input string) string {
	return fmt.Sprintf("## 데이터 처리 결과\n\n입력: %s\n\n### 처리 내용:\n- 데이터 정제 완료\n- 형식 변환 완료\n- 검증 완료\n\n---\n생성일: %s", input, timestamp())
}
