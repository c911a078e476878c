package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"scadasync/internal/model"
)

// insertRunSheets 在 CompleteRun 的事务中写入区域表概要
func insertRunSheets(tx *sql.Tx, runID string, sheets []model.SheetSummary) error {
	if len(sheets) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sync_sheets (run_id, seq, sheet_name, total_rows, tags, missing_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sheet insert: %w", err)
	}
	defer stmt.Close()

	for i, sh := range sheets {
		if _, err := stmt.Exec(runID, i, sh.Sheet, sh.Rows, sh.Tags, buildColumnsJSON(sh.Missing)); err != nil {
			return fmt.Errorf("failed to insert sync sheet: %w", err)
		}
	}
	return nil
}

// ListRunSheets 某次同步读取的区域表（按工作簿顺序）
func (s *Store) ListRunSheets(runID string) ([]model.SheetSummary, error) {
	rows, err := s.db.Query(`
		SELECT sheet_name, total_rows, tags, missing_json
		FROM sync_sheets
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sync sheets failed: %w", err)
	}
	defer rows.Close()

	out := []model.SheetSummary{}
	for rows.Next() {
		var (
			sh          model.SheetSummary
			missingJSON string
		)
		if err := rows.Scan(&sh.Sheet, &sh.Rows, &sh.Tags, &missingJSON); err != nil {
			return nil, fmt.Errorf("scan sync sheet failed: %w", err)
		}
		if missingJSON != "" && missingJSON != "[]" {
			if err := json.Unmarshal([]byte(missingJSON), &sh.Missing); err != nil {
				return nil, fmt.Errorf("decode missing columns of %s: %w", sh.Sheet, err)
			}
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync sheets failed: %w", err)
	}
	return out, nil
}

// buildColumnsJSON 将列名序列化为 JSON
func buildColumnsJSON(columns []string) string {
	if len(columns) == 0 {
		return "[]"
	}
	b, err := json.Marshal(columns)
	if err != nil {
		return "[]"
	}
	return string(b)
}
