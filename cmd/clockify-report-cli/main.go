package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Mankita13/clockify-report-app/internal/exporter"
)

// 非交互模式固定输出文件名
const outputFilename = "clockify_all_projects.xlsx"

// 以当前工作目录为根目录扫描项目文件夹，生成汇总 Excel 并写回当前目录，
// 处理日志逐行打印到标准输出。
func main() {
	root, err := os.Getwd()
	if err != nil {
		log.Fatalf("获取当前目录失败: %v", err)
	}

	fmt.Printf("Scanning root folder: %s\n", root)

	result, err := exporter.Build(root)
	if err != nil {
		log.Fatalf("生成报表失败: %v", err)
	}

	for _, line := range result.Log.Lines() {
		fmt.Println(line)
	}

	outPath := filepath.Join(root, outputFilename)
	if err := os.WriteFile(outPath, result.Bytes, 0644); err != nil {
		log.Fatalf("保存失败: %v", err)
	}

	fmt.Printf("\n✅ Workbook saved as: %s\n", outPath)
}
