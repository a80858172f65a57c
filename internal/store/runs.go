package store

import (
	"fmt"
	"time"

	"github.com/Mankita13/clockify-report-app/internal/model"
)

// RunRecord 一次报表生成的历史记录
type RunRecord struct {
	ID           int64                  `json:"id"`
	Filename     string                 `json:"filename"`
	RootPath     string                 `json:"root_path"`
	ProjectCount int                    `json:"project_count"`
	GrandTotal   float64                `json:"grand_total"`
	CreatedAt    time.Time              `json:"created_at"`
	Projects     []model.ProjectSummary `json:"projects"`
}

// InsertRun 记录一次成功的报表生成，返回 run_id
func (s *Store) InsertRun(filename, rootPath string, summaries []model.ProjectSummary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var grand float64
	for _, sm := range summaries {
		grand += sm.TotalHours
	}

	res, err := tx.Exec(`
		INSERT INTO runs (filename, root_path, project_count, grand_total)
		VALUES (?, ?, ?, ?)
	`, filename, rootPath, len(summaries), grand)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_projects (run_id, project, total_hours)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sm := range summaries {
		if _, err := stmt.Exec(id, sm.Project, sm.TotalHours); err != nil {
			return 0, fmt.Errorf("failed to insert run project: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListRuns 按时间倒序返回最近的生成历史
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, filename, root_path, project_count, grand_total, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Filename, &r.RootPath, &r.ProjectCount, &r.GrandTotal, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range records {
		projects, err := s.listRunProjects(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Projects = projects
	}

	return records, nil
}

func (s *Store) listRunProjects(runID int64) ([]model.ProjectSummary, error) {
	rows, err := s.db.Query(`
		SELECT project, total_hours
		FROM run_projects
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run projects: %w", err)
	}
	defer rows.Close()

	summaries := []model.ProjectSummary{}
	for rows.Next() {
		var sm model.ProjectSummary
		if err := rows.Scan(&sm.Project, &sm.TotalHours); err != nil {
			return nil, fmt.Errorf("failed to scan run project: %w", err)
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}
