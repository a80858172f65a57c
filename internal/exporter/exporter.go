package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Mankita13/clockify-report-app/internal/aggregator"
	"github.com/Mankita13/clockify-report-app/internal/model"
	"github.com/Mankita13/clockify-report-app/internal/parser"
	"github.com/Mankita13/clockify-report-app/internal/util"
)

// Excel sheet 名称上限
const maxSheetNameLen = 31

// 跳过的环境类目录
var skipDirNames = map[string]bool{
	"venv":        true,
	"__pycache__": true,
}

// Result 一次生成的完整产物
type Result struct {
	Bytes     []byte
	Filename  string
	Summaries []model.ProjectSummary
	Log       *model.RunLog
}

// Build 扫描根目录并生成汇总工作簿
//
// 根目录的每个一级子目录视为一个项目，生成一个 sheet；
// 没有任何项目产出 sheet 时保留一个名为 NoData 的占位 sheet。
// 文件粒度的失败只进处理日志，这里只有根目录不可读或序列化失败才返回错误。
func Build(root string) (*Result, error) {
	runLog := model.NewRunLog()

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("读取根目录失败: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	defaultSheet := f.GetSheetName(0)

	added := 0
	var summaries []model.ProjectSummary

	// os.ReadDir 已按名称排序
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		name := ent.Name()
		if skipDirNames[strings.ToLower(name)] || strings.HasPrefix(name, ".") {
			continue
		}

		runLog.Append("")
		runLog.Append("Processing project folder: %s", name)

		months := aggregator.AggregateProject(filepath.Join(root, name), runLog)
		if len(months) == 0 {
			runLog.Append("  (no valid CSV months found for %s)", name)
			continue
		}

		grand, err := writeProjectSheet(f, name, months)
		if err != nil {
			return nil, fmt.Errorf("写入 sheet %s 失败: %w", name, err)
		}

		summaries = append(summaries, model.ProjectSummary{Project: name, TotalHours: grand})
		added++
	}

	if added > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("删除默认 sheet 失败: %w", err)
		}
	} else {
		if err := f.SetSheetName(defaultSheet, "NoData"); err != nil {
			return nil, fmt.Errorf("重命名默认 sheet 失败: %w", err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("序列化工作簿失败: %w", err)
	}

	filename := fmt.Sprintf("clockify_all_projects_%s.xlsx", time.Now().Format("20060102_150405"))

	return &Result{
		Bytes:     buf.Bytes(),
		Filename:  filename,
		Summaries: summaries,
		Log:       runLog,
	}, nil
}

// writeProjectSheet 写入单个项目的 sheet，返回项目总工时
//
// 行布局：表头、每个月份一段（月份合计行、子表头、明细行、空行）、
// 末尾空行加 TOTAL 行。
func writeProjectSheet(f *excelize.File, project string, months map[string]*model.MonthRecord) (float64, error) {
	sheetName := truncateSheetName(project)
	if _, err := f.NewSheet(sheetName); err != nil {
		return 0, err
	}

	w := &sheetWriter{file: f, sheet: sheetName}
	w.appendRow("Month", "Total Hours")

	labels := make([]string, 0, len(months))
	for label := range months {
		labels = append(labels, label)
	}
	parser.SortMonthLabels(labels)

	var grand float64
	for _, label := range labels {
		record := months[label]
		grand += record.Total

		w.appendRow(label, record.Total)
		w.appendRow("Description", "Hours")
		for _, entry := range record.Entries {
			w.appendRow(entry.Description, entry.Hours)
		}
		w.appendRow()
	}

	w.appendRow()
	w.appendRow("TOTAL", util.Round2(grand))

	return util.Round2(grand), w.err
}

// sheetWriter 顺序追加行的小工具，记录首个写入错误
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) appendRow(cells ...interface{}) {
	w.row++
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			if w.err == nil {
				w.err = err
			}
			return
		}
		if err := w.file.SetCellValue(w.sheet, cell, v); err != nil && w.err == nil {
			w.err = err
		}
	}
}

func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) > maxSheetNameLen {
		return string(runes[:maxSheetNameLen])
	}
	return name
}
