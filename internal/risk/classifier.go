package risk

import (
	"regexp"
	"strings"

	"github.com/mautops/officeflow/internal/types"
)

// 任务类型关键词表,按固定优先级顺序匹配,首个命中生效
var typeKeywords = []struct {
	taskType types.TaskType
	keywords []string
}{
	{types.TaskTypeMeeting, []string{"회의", "meeting"}},
	{types.TaskTypeEmail, []string{"메일", "email", "공지"}},
	{types.TaskTypeSchedule, []string{"일정", "schedule"}},
	{types.TaskTypeData, []string{"데이터", "data", "보고서"}},
}

// PII 正则,入库分类路径使用
var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{6}-\d{7}`),           // 居民登记号
	regexp.MustCompile(`\d{3}-\d{4}-\d{4}`),     // 电话号码
	regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), // 邮箱
}

var (
	externalKeywords = []string{"외부", "대외", "발신"}
	piiKeywords      = []string{"개인정보", "주민번호"}
	securityKeywords = []string{"보안", "비밀", "기밀"}
	contractKeywords = []string{"계약", "예산", "budget"}
)

// ClassifyType 从自由文本推断任务类型
// 调用方显式指定的类型始终优先于推断结果
func ClassifyType(input string, explicit types.TaskType) types.TaskType {
	if explicit != "" {
		return explicit
	}

	lower := strings.ToLower(input)
	for _, entry := range typeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.taskType
			}
		}
	}

	return types.TaskTypeDocument
}

// DetectTags 扫描文本中的风险信号,各项检查相互独立,命中即追加
func DetectTags(input string) []types.RiskTag {
	var tags []types.RiskTag
	lower := strings.ToLower(input)

	if containsAny(lower, externalKeywords) {
		tags = append(tags, types.RiskTag{
			Category:    types.RiskCategoryExternal,
			Level:       types.RiskLevelHigh,
			Description: "External communication detected",
		})
	}

	hasPII := false
	for _, pattern := range piiPatterns {
		if pattern.MatchString(input) {
			hasPII = true
			break
		}
	}
	if hasPII || containsAny(lower, piiKeywords) {
		tags = append(tags, types.RiskTag{
			Category:    types.RiskCategoryPersonalInfo,
			Level:       types.RiskLevelHigh,
			Description: "Personal information detected",
		})
	}

	if containsAny(lower, securityKeywords) {
		tags = append(tags, types.RiskTag{
			Category:    types.RiskCategorySecurity,
			Level:       types.RiskLevelCritical,
			Description: "Security-related content detected",
		})
	}

	if containsAny(lower, contractKeywords) {
		tags = append(tags, types.RiskTag{
			Category:    types.RiskCategoryContract,
			Level:       types.RiskLevelHigh,
			Description: "Contract or budget related content",
		})
	}

	return tags
}

// AggregateLevel 取所有标签中的最高风险等级,无标签时为 Low
func AggregateLevel(tags []types.RiskTag) types.RiskLevel {
	level := types.RiskLevelLow
	for _, tag := range tags {
		level = types.MaxRiskLevel(level, tag.Level)
	}
	return level
}

// Classify 入库路径的完整分类: 任务类型 + 风险标签 + 聚合风险等级
// 对相同输入必须是纯函数且确定性的
func Classify(input string, explicit types.TaskType) (types.TaskType, []types.RiskTag, types.RiskLevel) {
	taskType := ClassifyType(input, explicit)
	tags := DetectTags(input)
	return taskType, tags, AggregateLevel(tags)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
