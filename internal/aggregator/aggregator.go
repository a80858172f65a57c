package aggregator

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Mankita13/clockify-report-app/internal/model"
	"github.com/Mankita13/clockify-report-app/internal/parser"
	"github.com/Mankita13/clockify-report-app/internal/util"
)

// AggregateProject 汇总单个项目文件夹下的全部月份 CSV
//
// 返回 月份标签 -> MonthRecord 的映射；path 不是目录时返回 nil。
// 单个文件的读取或识别失败只记日志并跳过，绝不中断整个文件夹。
func AggregateProject(path string, runLog *model.RunLog) map[string]*model.MonthRecord {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}

	project := filepath.Base(path)

	entries, err := os.ReadDir(path)
	if err != nil {
		runLog.Append("   ❌ Could not list %s: %v", project, err)
		return nil
	}

	months := make(map[string]*model.MonthRecord)

	// os.ReadDir 已按文件名排序
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		fname := ent.Name()
		if !strings.EqualFold(filepath.Ext(fname), ".csv") {
			continue
		}

		label := strings.TrimSuffix(fname, filepath.Ext(fname))
		record := aggregateFile(filepath.Join(path, fname), project, fname, label, runLog)
		if record != nil {
			months[label] = record
		}
	}

	return months
}

// aggregateFile 汇总单个月份文件，失败返回 nil
func aggregateFile(fpath, project, fname, label string, runLog *model.RunLog) *model.MonthRecord {
	header, rows, err := readCSV(fpath)
	if err != nil {
		runLog.Append("   ❌ Could not read %s/%s: %v", project, fname, err)
		return nil
	}
	if len(rows) == 0 {
		runLog.Append("   ⚠ %s/%s: empty", project, fname)
		return nil
	}

	durationCol, ok := parser.FindDurationColumn(header)
	if !ok {
		runLog.Append("   ⚠ %s/%s: no duration column found (columns: %v)", project, fname, header)
		return nil
	}
	descCol, hasDesc := parser.FindDescriptionColumn(header)

	durationIdx := columnIndex(header, durationCol)
	descIdx := -1
	if hasDesc {
		descIdx = columnIndex(header, descCol)
	}

	record := &model.MonthRecord{Label: label}

	var total float64
	for _, row := range rows {
		hours := parser.ParseDuration(cellAt(row, durationIdx))
		total += hours
		if hours > 0 {
			record.Entries = append(record.Entries, model.Entry{
				Description: cellAt(row, descIdx),
				Hours:       hours,
			})
		}
	}
	record.Total = util.Round2(total)

	runLog.Append("   ✓ %s/%s -> %s hrs (using '%s')", project, fname, util.FormatHours(record.Total), durationCol)
	return record
}

// readCSV 读取 CSV 文件，返回表头和数据行
//
// 默认按 UTF-8 读取，内容不是合法 UTF-8 时按 Latin-1 重新解码。
func readCSV(fpath string) (header []string, rows [][]string, err error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, nil, err
	}

	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr == nil {
			data = decoded
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
