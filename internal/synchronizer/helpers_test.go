package synchronizer

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

type sheetSpec struct {
	name string
	rows [][]interface{}
}

// buildWorkbook 按顺序创建工作表，rows[0] 为表头
func buildWorkbook(t *testing.T, sheets ...sheetSpec) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("new sheet %s: %v", s.name, err)
		}
		for r, row := range s.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(s.name, cell, v); err != nil {
					t.Fatalf("set %s!%s: %v", s.name, cell, err)
				}
			}
		}
	}
	return f
}

// saveWorkbook 写入临时目录并关闭
func saveWorkbook(t *testing.T, f *excelize.File, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close workbook: %v", err)
	}
	return path
}

func readColumn(t *testing.T, path, sheet, col string, rows int) []string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { _ = f.Close() })

	out := make([]string, 0, rows)
	for r := 2; r < rows+2; r++ {
		v, err := f.GetCellValue(sheet, col+strconv.Itoa(r))
		if err != nil {
			t.Fatalf("get %s%d: %v", col, r, err)
		}
		out = append(out, v)
	}
	return out
}

func areaSheet(name string, rows ...[]interface{}) sheetSpec {
	return sheetSpec{
		name: name,
		rows: append([][]interface{}{{"Tag Name", "Description", "UDT Type"}}, rows...),
	}
}

func signalSheet(rows ...[]interface{}) sheetSpec {
	return sheetSpec{
		name: "SCADA_SIGNAL",
		rows: append([][]interface{}{{"Scada Tag Path", "DB", "Description"}}, rows...),
	}
}
