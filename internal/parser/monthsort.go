package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// 月份名映射，仅识别英文全称
var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

var (
	yearMonthPattern = regexp.MustCompile(`^(\d{4})[-_](\d{2})$`)
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
	tokenSplit       = regexp.MustCompile(`[_\-\s]+`)
)

// 无法识别的月份标签排到所有正常年月之后
const monthKeyLast = 9999*100 + 99

// MonthKey 计算月份标签的排序键，近似日历顺序
//
// 识别 YYYY-MM / YYYY_MM 以及含英文月份名的标签；
// 月份名旁无四位年份时按 2000 年处理（沿用既有口径，不做修正）。
func MonthKey(label string) int {
	n := strings.TrimSpace(label)
	if n == "" {
		return monthKeyLast
	}

	if m := yearMonthPattern.FindStringSubmatch(n); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return year*100 + month
	}

	tokens := tokenSplit.Split(strings.ToLower(n), -1)
	for _, tok := range tokens {
		month, ok := monthNames[tok]
		if !ok {
			continue
		}
		for _, q := range tokens {
			if yearPattern.MatchString(q) {
				year, _ := strconv.Atoi(q)
				return year*100 + month
			}
		}
		return 2000*100 + month
	}

	return monthKeyLast
}

// SortMonthLabels 按近似日历顺序排序月份标签，键相同时按标签字符串定序
func SortMonthLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ki, kj := MonthKey(labels[i]), MonthKey(labels[j])
		if ki != kj {
			return ki < kj
		}
		return labels[i] < labels[j]
	})
}
