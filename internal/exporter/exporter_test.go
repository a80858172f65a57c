package exporter

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeProject(t *testing.T, root, project string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, project)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestBuild_EndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "ProjectA", map[string]string{
		"Jan_2024.csv": "Start Date,Description,Duration (h)\n2024-01-02,Design,2.5\n2024-01-03,Review,01:30\n2024-01-04,Build,4.25\n",
		"Feb_2024.csv": "a,b\n\"unterminated\n",
	})

	result, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f := openWorkbook(t, result.Bytes)
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "ProjectA" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows("ProjectA")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) < 2 || rows[0][0] != "Month" || rows[0][1] != "Total Hours" {
		t.Fatalf("unexpected header: %v", rows)
	}
	if rows[1][0] != "Jan_2024" || rows[1][1] != "8.25" {
		t.Fatalf("unexpected month row: %v", rows[1])
	}
	if rows[2][0] != "Description" || rows[2][1] != "Hours" {
		t.Fatalf("unexpected sub-header: %v", rows[2])
	}

	last := lastNonEmptyRow(rows)
	if last[0] != "TOTAL" || last[1] != "8.25" {
		t.Fatalf("unexpected TOTAL row: %v", last)
	}

	joined := strings.Join(result.Log.Lines(), "\n")
	if !strings.Contains(joined, "Could not read ProjectA/Feb_2024.csv") {
		t.Fatalf("read failure log missing: %q", joined)
	}

	if len(result.Summaries) != 1 || result.Summaries[0].Project != "ProjectA" {
		t.Fatalf("unexpected summaries: %v", result.Summaries)
	}
	if math.Abs(result.Summaries[0].TotalHours-8.25) > 1e-9 {
		t.Fatalf("unexpected grand total: %v", result.Summaries[0].TotalHours)
	}
}

func TestBuild_MonthsInCalendarOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "ProjectB", map[string]string{
		// 文件名排序是 Feb 在前，日历排序应是 Jan 在前
		"Feb_2024.csv": "Duration,Description\n5.0,Ops\n",
		"Jan_2024.csv": "Duration,Description\n10.5,Dev\n",
	})

	result, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f := openWorkbook(t, result.Bytes)
	rows, err := f.GetRows("ProjectB")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}

	janRow, febRow := -1, -1
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		switch row[0] {
		case "Jan_2024":
			janRow = i
		case "Feb_2024":
			febRow = i
		}
	}
	if janRow < 0 || febRow < 0 || janRow > febRow {
		t.Fatalf("calendar order broken: jan=%d feb=%d", janRow, febRow)
	}

	last := lastNonEmptyRow(rows)
	if last[0] != "TOTAL" || last[1] != "15.5" {
		t.Fatalf("unexpected TOTAL row: %v", last)
	}
}

func TestBuild_NoProjects(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	// 隐藏目录和环境目录不算项目
	for _, name := range []string{".git", "venv", "__pycache__"} {
		if err := os.Mkdir(filepath.Join(root, name), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.csv"), []byte("Duration\n1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f := openWorkbook(t, result.Bytes)
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "NoData" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	if len(result.Summaries) != 0 {
		t.Fatalf("expected no summaries: %v", result.Summaries)
	}
}

func TestBuild_EmptyProjectSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "Empty", map[string]string{})
	writeProject(t, root, "Real", map[string]string{
		"Jan_2024.csv": "Duration,Description\n1,Work\n",
	})

	result, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f := openWorkbook(t, result.Bytes)
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Real" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	joined := strings.Join(result.Log.Lines(), "\n")
	if !strings.Contains(joined, "no valid CSV months found for Empty") {
		t.Fatalf("skip log missing: %q", joined)
	}
}

func TestBuild_SheetNameTruncated(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 40)
	root := t.TempDir()
	writeProject(t, root, long, map[string]string{
		"Jan_2024.csv": "Duration,Description\n1,Work\n",
	})

	result, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f := openWorkbook(t, result.Bytes)
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != strings.Repeat("x", 31) {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
}

func TestBuild_FilenamePattern(t *testing.T) {
	t.Parallel()

	result, err := Build(t.TempDir())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pattern := regexp.MustCompile(`^clockify_all_projects_\d{8}_\d{6}\.xlsx$`)
	if !pattern.MatchString(result.Filename) {
		t.Fatalf("unexpected filename: %q", result.Filename)
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Build(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestRoundTripTotals(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProject(t, root, "ProjectC", map[string]string{
		"Jan_2024.csv": "Duration,Description\n0.1,a\n0.2,b\n",
	})

	result, err := Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f := openWorkbook(t, result.Bytes)
	rows, err := f.GetRows("ProjectC")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}

	// 0.1+0.2 的浮点误差应被两位小数舍入吸收
	monthTotal, err := strconv.ParseFloat(rows[1][1], 64)
	if err != nil || math.Abs(monthTotal-0.3) > 1e-9 {
		t.Fatalf("unexpected month total: %v (%v)", rows[1][1], err)
	}
}

func lastNonEmptyRow(rows [][]string) []string {
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) > 0 && rows[i][0] != "" {
			return rows[i]
		}
	}
	return nil
}
