package audit

import "regexp"

// 脱敏替换为固定占位符,对已脱敏文本再次脱敏不产生变化
var (
	residentNumberPattern = regexp.MustCompile(`\d{6}-\d{7}`)
	phoneNumberPattern    = regexp.MustCompile(`\d{3}-\d{4}-\d{4}`)
	emailPattern          = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

const (
	residentNumberMask = "******-*******"
	phoneNumberMask    = "***-****-****"
	emailMask          = "***@***.***"
)

// MaskSensitive 将文本中的居民登记号、电话号码、邮箱替换为占位符
func MaskSensitive(data string) string {
	masked := residentNumberPattern.ReplaceAllString(data, residentNumberMask)
	masked = phoneNumberPattern.ReplaceAllString(masked, phoneNumberMask)
	masked = emailPattern.ReplaceAllString(masked, emailMask)
	return masked
}

// maskDetails 对详情负载中的所有字符串值脱敏,其他类型原样保留
func maskDetails(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return map[string]interface{}{}
	}
	masked := make(map[string]interface{}, len(details))
	for key, value := range details {
		switch v := value.(type) {
		case string:
			masked[key] = MaskSensitive(v)
		case []string:
			items := make([]string, len(v))
			for i, s := range v {
				items[i] = MaskSensitive(s)
			}
			masked[key] = items
		default:
			masked[key] = value
		}
	}
	return masked
}
