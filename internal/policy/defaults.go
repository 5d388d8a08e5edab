package policy

// DefaultRules 内置组织规则
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "rule-001",
			Name:        "External Communication Rule",
			Description: "Require approval for external communications",
			AppliesTo:   []string{"email", "meeting"},
			Conditions: []Condition{
				{Field: "input", Operator: OperatorContains, Value: "외부"},
			},
			Actions: []Action{
				{Kind: ActionRequireApproval, Approver: "manager"},
				{Kind: ActionAddTag, Tag: "external-communication"},
			},
		},
		{
			ID:          "rule-002",
			Name:        "Personal Information Rule",
			Description: "Require approval for PII handling",
			AppliesTo:   []string{"*"},
			Conditions: []Condition{
				{Field: "input", Operator: OperatorRegex, Value: `\d{6}-\d{7}`},
			},
			Actions: []Action{
				{Kind: ActionRequireApproval, Approver: "security-team"},
				{Kind: ActionAddTag, Tag: "pii-detected"},
			},
		},
	}
}

// DefaultTemplates 内置文本模板
func DefaultTemplates() []Template {
	return []Template{
		{
			ID:      "meeting-minutes",
			Name:    "Standard Meeting Minutes",
			Type:    "document",
			Content: "# 회의록\n\n## 회의 개요\n{{content}}\n\n## 결정사항\n(자동 추출)\n\n## 액션 아이템\n(자동 추출)",
		},
		{
			ID:      "formal-email",
			Name:    "Formal Email",
			Type:    "email",
			Content: "제목: [업무안내] {{subject}}\n\n안녕하세요,\n\n{{content}}\n\n감사합니다.",
		},
	}
}
