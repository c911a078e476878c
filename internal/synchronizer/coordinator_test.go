package synchronizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scadasync/internal/model"
)

type fakeRecorder struct {
	created   []*model.SyncRun
	completed map[string]error
	results   map[string]*model.SyncResult
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		completed: map[string]error{},
		results:   map[string]*model.SyncResult{},
	}
}

func (r *fakeRecorder) CreateRun(run *model.SyncRun) error {
	r.created = append(r.created, run)
	return nil
}

func (r *fakeRecorder) CompleteRun(id string, result *model.SyncResult, runErr error) error {
	r.completed[id] = runErr
	r.results[id] = result
	return nil
}

func sampleWorkbookPath(t *testing.T) string {
	t.Helper()

	f := buildWorkbook(t,
		areaSheet("AC",
			[]interface{}{"PUMP1", "Main Pump", "Motor"},
			[]interface{}{"VALVE1", "Inlet Valve", "Valve"},
		),
		signalSheet(
			[]interface{}{"X.PUMP1.HiAlarm", "AC", "old"},
			[]interface{}{"X.PUMP1.Status", "AC", "Main Pump"},
			[]interface{}{"X.VALVE1.LoLo", "AC", nil},
			[]interface{}{"Area1.Tag1", "AC", "keep"},
		),
	)
	return saveWorkbook(t, f, "plant.xlsx")
}

func TestCoordinatorRun_WritesOutputAndIsIdempotent(t *testing.T) {
	src := sampleWorkbookPath(t)
	outDir := t.TempDir()
	recorder := newFakeRecorder()

	var events []ProgressEvent
	c := NewCoordinator(recorder)
	res, err := c.Run(model.RunConfig{
		SourcePath: src,
		OutputDir:  outDir,
	}, func(e ProgressEvent) { events = append(events, e) })
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wantPath := filepath.Join(outDir, "plant_synchronized.xlsx")
	if res.OutputPath != wantPath || res.OutputFile != "plant_synchronized.xlsx" || res.OutputDir != outDir {
		t.Fatalf("unexpected output: %+v", res)
	}
	if res.Processed != 3 || res.Updated != 2 || res.TagsLoaded != 2 {
		t.Fatalf("processed=%d updated=%d tags=%d", res.Processed, res.Updated, res.TagsLoaded)
	}
	if diff := cmp.Diff([]model.SheetSummary{{Sheet: "AC", Rows: 2, Tags: 2}}, res.Sheets); diff != "" {
		t.Fatalf("sheets mismatch (-want +got):\n%s", diff)
	}

	got := readColumn(t, wantPath, "SCADA_SIGNAL", "C", 4)
	want := []string{"Main Pump HI ALARM", "Main Pump", "Inlet Valve LOLO", "keep"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptions mismatch (-want +got):\n%s", diff)
	}

	// 源文件不被修改
	if src := readColumn(t, src, "SCADA_SIGNAL", "C", 1); src[0] != "old" {
		t.Fatalf("source workbook modified: %q", src[0])
	}

	// 区域表原样保留
	if got := readColumn(t, wantPath, "AC", "B", 2); got[0] != "Main Pump" || got[1] != "Inlet Valve" {
		t.Fatalf("area sheet changed: %v", got)
	}

	if len(recorder.created) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(recorder.created))
	}
	id := recorder.created[0].ID
	if err, ok := recorder.completed[id]; !ok || err != nil {
		t.Fatalf("run not completed successfully: ok=%v err=%v", ok, err)
	}

	var updateEvents int
	for _, e := range events {
		if e.Type == EventUpdate {
			updateEvents++
		}
	}
	if updateEvents != 2 {
		t.Fatalf("update events=%d, want 2", updateEvents)
	}

	// 对输出再跑一次：不再有更新
	again, err := NewCoordinator(nil).Run(model.RunConfig{
		SourcePath: wantPath,
		OutputDir:  t.TempDir(),
		OutputName: "again",
	}, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Updated != 0 || again.Processed != res.Processed {
		t.Fatalf("second run processed=%d updated=%d", again.Processed, again.Updated)
	}
	if again.OutputFile != "again.xlsx" {
		t.Fatalf("output file=%s, want again.xlsx", again.OutputFile)
	}
}

func TestCoordinatorRun_DryRunWritesNothing(t *testing.T) {
	src := sampleWorkbookPath(t)
	outDir := t.TempDir()

	res, err := NewCoordinator(nil).Run(model.RunConfig{
		SourcePath: src,
		OutputDir:  outDir,
		DryRun:     true,
	}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.DryRun || res.Updated != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(res.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write output, stat err=%v", err)
	}
}

func TestCoordinatorRun_LimitsLoggedUpdates(t *testing.T) {
	src := sampleWorkbookPath(t)

	var updateEvents int
	_, err := NewCoordinator(nil).Run(model.RunConfig{
		SourcePath:       src,
		OutputDir:        t.TempDir(),
		MaxLoggedUpdates: 1,
	}, func(e ProgressEvent) {
		if e.Type == EventUpdate {
			updateEvents++
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if updateEvents != 1 {
		t.Fatalf("update events=%d, want 1", updateEvents)
	}
}

func TestCoordinatorRun_MissingInput(t *testing.T) {
	recorder := newFakeRecorder()
	_, err := NewCoordinator(recorder).Run(model.RunConfig{SourcePath: "  "}, nil)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if len(recorder.created) != 0 {
		t.Fatalf("missing input must fail before anything is recorded")
	}
}

func TestCoordinatorRun_MissingPrimarySheet(t *testing.T) {
	f := buildWorkbook(t, areaSheet("AC", []interface{}{"PUMP1", "Main Pump"}))
	src := saveWorkbook(t, f, "no_signal.xlsx")
	outDir := t.TempDir()
	recorder := newFakeRecorder()

	_, err := NewCoordinator(recorder).Run(model.RunConfig{SourcePath: src, OutputDir: outDir}, nil)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) || !schemaErr.SheetMissing {
		t.Fatalf("expected missing sheet SchemaError, got %v", err)
	}

	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Fatalf("no output expected on schema error, found %d files", len(entries))
	}

	id := recorder.created[0].ID
	if recorder.completed[id] == nil {
		t.Fatalf("failed run must be recorded with its error")
	}
}

func TestCoordinatorRun_MissingRequiredColumn(t *testing.T) {
	f := buildWorkbook(t,
		areaSheet("AC", []interface{}{"PUMP1", "Main Pump"}),
		sheetSpec{name: "SCADA_SIGNAL", rows: [][]interface{}{{"Path", "DB", "Description"}}},
	)
	src := saveWorkbook(t, f, "bad_header.xlsx")

	_, err := NewCoordinator(nil).Run(model.RunConfig{SourcePath: src, OutputDir: t.TempDir()}, nil)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) || schemaErr.SheetMissing {
		t.Fatalf("expected missing column SchemaError, got %v", err)
	}
}

func TestCoordinatorRun_OpenFolder(t *testing.T) {
	src := sampleWorkbookPath(t)
	outDir := t.TempDir()

	var opened string
	c := NewCoordinator(nil)
	c.openFolder = func(dir string) error {
		opened = dir
		return nil
	}
	if _, err := c.Run(model.RunConfig{SourcePath: src, OutputDir: outDir, OpenFolder: true}, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if opened != outDir {
		t.Fatalf("opened=%q, want %q", opened, outDir)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	src := filepath.Join("data", "in", "plant.xlsx")
	cases := []struct {
		name string
		cfg  model.RunConfig
		want string
	}{
		{"defaults", model.RunConfig{SourcePath: src}, filepath.Join("data", "in", "plant_synchronized.xlsx")},
		{"suffix", model.RunConfig{SourcePath: src, OutputSuffix: "_v2"}, filepath.Join("data", "in", "plant_v2.xlsx")},
		{"name with ext", model.RunConfig{SourcePath: src, OutputDir: "out", OutputName: "result.xlsx"}, filepath.Join("out", "result.xlsx")},
		{"name", model.RunConfig{SourcePath: src, OutputDir: "out", OutputName: "result"}, filepath.Join("out", "result.xlsx")},
	}
	for _, tc := range cases {
		if got := OutputPath(tc.cfg); got != tc.want {
			t.Fatalf("%s: OutputPath=%s, want %s", tc.name, got, tc.want)
		}
	}
}
