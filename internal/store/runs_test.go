package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"scadasync/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "scadasync.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRuns_CreateCompleteAndList(t *testing.T) {
	st := newTestStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	first := &model.SyncRun{ID: "run-1", SourceFile: "plant.xlsx", OutputFile: "plant_synchronized.xlsx", CreatedAt: base}
	second := &model.SyncRun{ID: "run-2", SourceFile: "other.xlsx", CreatedAt: base.Add(time.Minute), DryRun: true}
	for _, r := range []*model.SyncRun{first, second} {
		if err := st.CreateRun(r); err != nil {
			t.Fatalf("create run: %v", err)
		}
	}

	got, err := st.GetRun("run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != model.RunStatusProcessing || got.CompletedAt != nil {
		t.Fatalf("new run should be processing: %+v", got)
	}

	result := &model.SyncResult{
		Processed:  3,
		Updated:    2,
		TagsLoaded: 5,
		OutputFile: "plant_synchronized.xlsx",
		Updates: []model.SignalUpdate{
			{Row: 4, Path: "X.VALVE1.LoLo", DB: "AC", BaseTag: "VALVE1", Variant: "LoLo", New: "Inlet Valve LOLO"},
			{Row: 2, Path: "X.PUMP1.HiAlarm", DB: "AC", BaseTag: "PUMP1", Variant: "HiAlarm", Old: "old", New: "Main Pump HI ALARM"},
		},
		Sheets: []model.SheetSummary{
			{Sheet: "AC", Rows: 6, Tags: 5},
			{Sheet: "NOTES", Rows: 2, Missing: []string{"Tag Name"}},
		},
	}
	if err := st.CompleteRun("run-1", result, nil); err != nil {
		t.Fatalf("complete run: %v", err)
	}
	if err := st.CompleteRun("run-2", nil, errors.New("SCADA_SIGNAL sheet not found")); err != nil {
		t.Fatalf("fail run: %v", err)
	}

	got, err = st.GetRun("run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != model.RunStatusSucceeded || got.Processed != 3 || got.Updated != 2 || got.TagsLoaded != 5 {
		t.Fatalf("unexpected completed run: %+v", got)
	}
	if got.CompletedAt == nil || !got.CreatedAt.Equal(base) {
		t.Fatalf("unexpected timestamps: created=%v completed=%v", got.CreatedAt, got.CompletedAt)
	}

	failed, err := st.GetRun("run-2")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if failed.Status != model.RunStatusFailed || failed.ErrorMessage != "SCADA_SIGNAL sheet not found" || !failed.DryRun {
		t.Fatalf("unexpected failed run: %+v", failed)
	}

	updates, err := st.ListRunUpdates("run-1")
	if err != nil {
		t.Fatalf("list updates: %v", err)
	}
	if len(updates) != 2 || updates[0].Row != 2 || updates[1].Row != 4 {
		t.Fatalf("updates must be ordered by row: %+v", updates)
	}
	if updates[0].Old != "old" || updates[0].New != "Main Pump HI ALARM" || updates[0].Variant != "HiAlarm" {
		t.Fatalf("unexpected update: %+v", updates[0])
	}

	sheets, err := st.ListRunSheets("run-1")
	if err != nil {
		t.Fatalf("list sheets: %v", err)
	}
	if diff := cmp.Diff(result.Sheets, sheets); diff != "" {
		t.Fatalf("sheets mismatch (-want +got):\n%s", diff)
	}
	if none, err := st.ListRunSheets("run-2"); err != nil || len(none) != 0 {
		t.Fatalf("failed run should have no sheets: %+v err=%v", none, err)
	}

	runs, err := st.ListRuns(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Fatalf("runs must be newest first: %+v", runs)
	}
	if limited, _ := st.ListRuns(1); len(limited) != 1 {
		t.Fatalf("limit not applied: %d", len(limited))
	}
	if n, err := st.CountRuns(); err != nil || n != 2 {
		t.Fatalf("count=%d err=%v", n, err)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetRun("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestDeleteRun_CascadesDetails(t *testing.T) {
	st := newTestStore(t)

	if err := st.CreateRun(&model.SyncRun{ID: "run-1", SourceFile: "plant.xlsx"}); err != nil {
		t.Fatalf("create run: %v", err)
	}
	result := &model.SyncResult{
		Processed: 1,
		Updated:   1,
		Updates:   []model.SignalUpdate{{Row: 2, Path: "X.PUMP1.HiAlarm", DB: "AC", New: "Main Pump HI ALARM"}},
		Sheets:    []model.SheetSummary{{Sheet: "AC", Rows: 1, Tags: 1}},
	}
	if err := st.CompleteRun("run-1", result, nil); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	if err := st.DeleteRun("run-1"); err != nil {
		t.Fatalf("delete run: %v", err)
	}
	if _, err := st.GetRun("run-1"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound after delete, got %v", err)
	}
	if updates, err := st.ListRunUpdates("run-1"); err != nil || len(updates) != 0 {
		t.Fatalf("updates should be cascaded: %+v err=%v", updates, err)
	}
	if sheets, err := st.ListRunSheets("run-1"); err != nil || len(sheets) != 0 {
		t.Fatalf("sheets should be cascaded: %+v err=%v", sheets, err)
	}
	if err := st.DeleteRun("run-1"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}
