package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"scadasync/internal/model"
)

// ErrRunNotFound 同步记录不存在
var ErrRunNotFound = errors.New("sync run not found")

// CreateRun 创建同步记录（status = processing）
func (s *Store) CreateRun(run *model.SyncRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = model.RunStatusProcessing
	}
	_, err := s.db.Exec(`
		INSERT INTO sync_runs (id, source_file, output_file, status, dry_run, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceFile, run.OutputFile, string(run.Status), run.DryRun, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	return nil
}

// CompleteRun 完成同步记录；runErr 非空时记为失败，否则写入计数与逐行更新
func (s *Store) CompleteRun(id string, result *model.SyncResult, runErr error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	if runErr != nil || result == nil {
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		}
		if _, err := tx.Exec(`
			UPDATE sync_runs SET status = ?, error_message = ?, completed_at = ? WHERE id = ?
		`, string(model.RunStatusFailed), msg, now, id); err != nil {
			return fmt.Errorf("failed to update sync run: %w", err)
		}
		return tx.Commit()
	}

	if _, err := tx.Exec(`
		UPDATE sync_runs SET
			status = ?,
			output_file = ?,
			processed = ?,
			updated = ?,
			tags_loaded = ?,
			dry_run = ?,
			completed_at = ?
		WHERE id = ?
	`, string(model.RunStatusSucceeded), result.OutputFile, result.Processed, result.Updated,
		result.TagsLoaded, result.DryRun, now, id); err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sync_updates (run_id, row_no, tag_path, db, base_tag, variant, old_description, new_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare update insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range result.Updates {
		if _, err := stmt.Exec(id, u.Row, u.Path, u.DB, u.BaseTag, u.Variant, u.Old, u.New); err != nil {
			return fmt.Errorf("failed to insert sync update: %w", err)
		}
	}

	if err := insertRunSheets(tx, id, result.Sheets); err != nil {
		return err
	}
	return tx.Commit()
}

const runColumns = `id, source_file, output_file, status, processed, updated, tags_loaded, dry_run, error_message, created_at, completed_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*model.SyncRun, error) {
	var (
		run       model.SyncRun
		status    string
		completed sql.NullTime
	)
	if err := row.Scan(&run.ID, &run.SourceFile, &run.OutputFile, &status, &run.Processed, &run.Updated,
		&run.TagsLoaded, &run.DryRun, &run.ErrorMessage, &run.CreatedAt, &completed); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

// GetRun 按 ID 获取同步记录
func (s *Store) GetRun(id string) (*model.SyncRun, error) {
	run, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM sync_runs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}
	return run, nil
}

// ListRuns 按时间倒序列出同步记录，limit <= 0 表示不限制
func (s *Store) ListRuns(limit int) ([]*model.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync runs failed: %w", err)
	}
	defer rows.Close()

	out := []*model.SyncRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync run failed: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync runs failed: %w", err)
	}
	return out, nil
}

// ListRunUpdates 某次同步写回的描述（按行号）
func (s *Store) ListRunUpdates(runID string) ([]model.SignalUpdate, error) {
	rows, err := s.db.Query(`
		SELECT row_no, tag_path, db, base_tag, variant, old_description, new_description
		FROM sync_updates
		WHERE run_id = ?
		ORDER BY row_no
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sync updates failed: %w", err)
	}
	defer rows.Close()

	out := []model.SignalUpdate{}
	for rows.Next() {
		var u model.SignalUpdate
		if err := rows.Scan(&u.Row, &u.Path, &u.DB, &u.BaseTag, &u.Variant, &u.Old, &u.New); err != nil {
			return nil, fmt.Errorf("scan sync update failed: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync updates failed: %w", err)
	}
	return out, nil
}

// CountRuns 同步记录总数
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM sync_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sync runs failed: %w", err)
	}
	return n, nil
}

// DeleteRun 删除同步记录及其逐行更新、区域表概要
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM sync_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}
