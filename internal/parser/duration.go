package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern  = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	nonDigitPattern = regexp.MustCompile(`[^\d]`)
)

// ParseDuration 将单元格原始值解析为十进制小时数
//
// 支持三类格式：纯小数（含逗号小数点）、带符号小数、hh:mm[:ss] 时钟串。
// 全函数保证不失败：任何无法解析的输入一律返回 0。
func ParseDuration(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}

	// 地区性小数点修正
	s = strings.ReplaceAll(s, ",", ".")

	if decimalPattern.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			parts = parts[:3]
		}
		nums := make([]int, 0, 3)
		for _, p := range parts {
			p = nonDigitPattern.ReplaceAllString(strings.TrimSpace(p), "")
			if p == "" {
				nums = append(nums, 0)
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil {
				nums = append(nums, 0)
				continue
			}
			nums = append(nums, n)
		}
		for len(nums) < 3 {
			nums = append(nums, 0)
		}
		return float64(nums[0]) + float64(nums[1])/60.0 + float64(nums[2])/3600.0
	}

	return 0
}
