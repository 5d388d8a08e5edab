package policy

import (
	"regexp"
	"strings"

	"github.com/mautops/officeflow/internal/types"
)

// Operator 规则条件运算符
type Operator string

const (
	OperatorEquals   Operator = "equals"
	OperatorContains Operator = "contains"
	OperatorRegex    Operator = "regex"
)

// ActionKind 规则动作类型
type ActionKind string

const (
	ActionRequireApproval ActionKind = "require_approval"
	ActionAddTag          ActionKind = "add_tag"
	ActionApplyTemplate   ActionKind = "apply_template"
	// ActionBlock 已声明但当前没有运行时效果,预留
	ActionBlock ActionKind = "block"
)

// Condition 规则条件,field/operator/value 三元组
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}

// Action 规则动作,带判别式的变体表示,按 Kind 分派
type Action struct {
	Kind       ActionKind `json:"type" yaml:"type"`
	Approver   string     `json:"approver,omitempty" yaml:"approver,omitempty"`
	Tag        string     `json:"tag,omitempty" yaml:"tag,omitempty"`
	TemplateID string     `json:"templateId,omitempty" yaml:"templateId,omitempty"`
}

// Rule 组织策略规则: 条件合取,动作按声明顺序执行
type Rule struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	AppliesTo   []string    `json:"appliesTo" yaml:"appliesTo"`
	Conditions  []Condition `json:"conditions" yaml:"conditions"`
	Actions     []Action    `json:"actions" yaml:"actions"`
}

// Template 规范文本模板,{{content}}/{{subject}} 为占位符
type Template struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
}

// Result 规则求值结果
type Result struct {
	ModifiedInput     string
	Tags              []string
	RequiredApprovers []string
}

// Engine 策略规则引擎
type Engine struct {
	rules     []Rule
	templates map[string]Template
}

// NewEngine 创建规则引擎,nil 时使用内置默认规则与模板
func NewEngine(rules []Rule, templates []Template) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	if templates == nil {
		templates = DefaultTemplates()
	}

	tm := make(map[string]Template, len(templates))
	for _, tpl := range templates {
		tm[tpl.ID] = tpl
	}

	return &Engine{rules: rules, templates: tm}
}

// ApplicableRules 返回适用于指定任务类型的规则
// 规则的适用列表包含该类型或通配符 * 时适用
func (e *Engine) ApplicableRules(taskType types.TaskType) []Rule {
	var applicable []Rule
	for _, rule := range e.rules {
		for _, t := range rule.AppliesTo {
			if t == string(taskType) || t == "*" {
				applicable = append(applicable, rule)
				break
			}
		}
	}
	return applicable
}

// Template 根据 ID 查找模板
func (e *Engine) Template(id string) (Template, bool) {
	tpl, ok := e.templates[id]
	return tpl, ok
}

// Evaluate 对输入求值所有适用规则
// 条件为合取;动作按声明顺序执行;apply_template 以原始输入替换
// {{content}} 占位符,后匹配的规则覆盖先匹配的替换结果
func (e *Engine) Evaluate(input string, taskType types.TaskType) Result {
	result := Result{ModifiedInput: input}

	for _, rule := range e.ApplicableRules(taskType) {
		if !evaluateConditions(input, rule.Conditions) {
			continue
		}
		for _, action := range rule.Actions {
			switch action.Kind {
			case ActionAddTag:
				result.Tags = append(result.Tags, action.Tag)
			case ActionRequireApproval:
				result.RequiredApprovers = append(result.RequiredApprovers, action.Approver)
			case ActionApplyTemplate:
				// 只替换第一处占位符
				if tpl, ok := e.templates[action.TemplateID]; ok {
					result.ModifiedInput = strings.Replace(tpl.Content, "{{content}}", input, 1)
				}
			case ActionBlock:
				// 预留,无运行时效果
			}
		}
	}

	return result
}

// evaluateConditions 条件合取求值,全部为真才算匹配
func evaluateConditions(input string, conditions []Condition) bool {
	for _, cond := range conditions {
		if !evaluateCondition(input, cond) {
			return false
		}
	}
	return true
}

func evaluateCondition(input string, cond Condition) bool {
	switch cond.Operator {
	case OperatorEquals:
		return input == cond.Value
	case OperatorContains:
		return strings.Contains(strings.ToLower(input), strings.ToLower(cond.Value))
	case OperatorRegex:
		matched, err := regexp.MatchString(cond.Value, input)
		return err == nil && matched
	default:
		return false
	}
}
