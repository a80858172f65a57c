package model

// Entry 单条工时记录（仅保留正工时的行）
type Entry struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
}

// MonthRecord 一个项目文件夹内单个月份文件的汇总
//
// Total 对该文件全部行的解析值求和（含 0 和负数调整行），
// Entries 只保留工时大于 0 的行，两者不要求对账一致。
type MonthRecord struct {
	Label   string  `json:"label"`
	Total   float64 `json:"total"`
	Entries []Entry `json:"entries"`
}

// ProjectSummary 单个项目的总工时汇总
type ProjectSummary struct {
	Project    string  `json:"project"`
	TotalHours float64 `json:"total_hours"`
}
