package synchronizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	hiHiPattern     = regexp.MustCompile(`\bHI\s+HI\b`)
	loLoPattern     = regexp.MustCompile(`\bLO\s+LO\b`)
	dataTypePattern = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// FormatSignalLabel 把变量后缀格式化为描述中的显示文本
//
// 已是大写的后缀只去掉下划线：HI_HI -> HIHI；
// 其余按驼峰拆词后大写：MyVariable -> MY VARIABLE, HiAlarm -> HI ALARM；
// 拆开后的 HI HI / LO LO 合并为 HIHI / LOLO。
func FormatSignalLabel(token string) string {
	if token == "" {
		return ""
	}

	compact := strings.ReplaceAll(token, "_", "")
	if isAllUpper(compact) {
		return strings.ToUpper(compact)
	}

	s := strings.ReplaceAll(token, "_", " ")
	s = splitCamelCase(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ToUpper(s)
	s = hiHiPattern.ReplaceAllString(s, "HIHI")
	s = loLoPattern.ReplaceAllString(s, "LOLO")
	return s
}

// IsDataTypeToken 后缀（去下划线后）是否全部由 A-Z、0-9 组成，如 AI、DI16
func IsDataTypeToken(token string) bool {
	return dataTypePattern.MatchString(strings.ReplaceAll(token, "_", ""))
}

// ExpectedDescription 区域描述 + 后缀显示文本；数据类型后缀与 Status 不追加
func ExpectedDescription(description, variant string) string {
	label := FormatSignalLabel(variant)
	if label != "" && !IsDataTypeToken(variant) && strings.ToUpper(variant) != "STATUS" {
		return strings.TrimSpace(description + " " + label)
	}
	return description
}

// isAllUpper 至少含一个大写字母，且没有大写化后会改变的字符（数字、符号不计）
//
// 用 ToUpper 判定而不是 IsLower：ĸ 这类没有大写形式的字母大写化后仍是自身，
// 按 IsLower 判定会让已格式化的结果再次拆词。
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.ToUpper(r) != r:
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// splitCamelCase 在非首字符的 A-Z 前插入空格
func splitCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
