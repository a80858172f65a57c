package parser

import (
	"regexp"
	"strings"
)

var columnNoisePattern = regexp.MustCompile(`[\s()\-.]`)

// NormalizeColumnName 规范化列名：小写并去除空白、括号、连字符和点号
func NormalizeColumnName(name string) string {
	return columnNoisePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}

// 时长列精确匹配优先级，依次尝试
var durationExactCandidates = []string{"durationdecimal", "durationh", "duration"}

var durationKeywords = []string{"duration", "time", "hours"}

var descriptionKeywords = []string{"description", "details", "note"}

// FindDurationColumn 从列名中识别时长列
//
// 先按规范化后的精确匹配优先级查找，再退化为关键词子串匹配，
// 子串匹配按原始列顺序取第一个命中。找不到返回 ok=false，由调用方跳过该文件。
func FindDurationColumn(columns []string) (string, bool) {
	normToOrig := make(map[string]string, len(columns))
	for _, col := range columns {
		normToOrig[NormalizeColumnName(col)] = col
	}

	for _, candidate := range durationExactCandidates {
		if orig, ok := normToOrig[candidate]; ok {
			return orig, true
		}
	}

	for _, col := range columns {
		n := NormalizeColumnName(col)
		if ContainsAny(n, durationKeywords) {
			return col, true
		}
	}

	return "", false
}

// FindDescriptionColumn 从列名中识别描述列
//
// 描述列是可选的，缺失不算错误。
func FindDescriptionColumn(columns []string) (string, bool) {
	for _, col := range columns {
		n := NormalizeColumnName(col)
		if ContainsAny(n, descriptionKeywords) {
			return col, true
		}
	}
	return "", false
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
