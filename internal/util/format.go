package util

import (
	"math"
	"strconv"
)

// Round2 四舍五入保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatHours 格式化工时数，去掉多余的尾零
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
