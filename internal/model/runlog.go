package model

import "fmt"

// RunLog 一次生成过程的处理日志
//
// 按发生顺序追加的人类可读文本行，只做展示，不参与任何逻辑。
type RunLog struct {
	lines []string
}

// NewRunLog 创建处理日志
func NewRunLog() *RunLog {
	return &RunLog{}
}

// Append 追加一行日志
func (l *RunLog) Append(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines 按顺序返回全部日志行
func (l *RunLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
