package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"scadasync/internal/model"
)

// Source 按名称提供工作表的表格数据源
type Source interface {
	SheetNames() []string
	HasSheet(name string) bool
	Table(name string, kindCols ...string) (*Table, error)
}

// Workbook 已打开的 xlsx 工作簿，使用完必须 Close
type Workbook struct {
	file *excelize.File
}

var _ Source = (*Workbook)(nil)

// Open 打开工作簿文件
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	return &Workbook{file: f}, nil
}

// FromFile 包装已有的 excelize 文件
func FromFile(f *excelize.File) *Workbook {
	return &Workbook{file: f}
}

// Close 释放工作簿
func (w *Workbook) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}

// SheetNames 按工作簿顺序返回表名
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet 是否存在指定表
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Table 读取整张工作表：第 1 行为表头，其余为数据行
//
// 只有表头在 kindCols 中的列会判定单元格类型（逐格查询公式与存储类型），
// 其余列的非空单元格一律记为 CellText。
func (w *Workbook) Table(name string, kindCols ...string) (*Table, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return NewTable(name, nil, nil), nil
	}

	header := buildHeader(rows[0])
	classify := make(map[int]bool, len(kindCols))
	for _, c := range kindCols {
		if col, ok := header[c]; ok {
			classify[col] = true
		}
	}

	data := make([][]Cell, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		cells := make([]Cell, len(row))
		for j, v := range row {
			if v == "" {
				continue
			}
			if !classify[j+1] {
				cells[j] = Cell{Value: v, Kind: model.CellText}
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, err
			}
			kind, err := w.cellKind(name, cellName, v)
			if err != nil {
				return nil, fmt.Errorf("read cell %s!%s: %w", name, cellName, err)
			}
			cells[j] = Cell{Value: v, Kind: kind}
		}
		data = append(data, cells)
	}

	return NewTable(name, rows[0], data), nil
}

// cellKind 判定单元格类型：先看公式，再看存储类型
func (w *Workbook) cellKind(sheet, cell, value string) (model.CellKind, error) {
	formula, err := w.file.GetCellFormula(sheet, cell)
	if err != nil {
		return model.CellEmpty, err
	}
	if formula != "" {
		return model.CellFormula, nil
	}

	typ, err := w.file.GetCellType(sheet, cell)
	if err != nil {
		return model.CellEmpty, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return model.CellText, nil
	case excelize.CellTypeFormula:
		return model.CellFormula, nil
	case excelize.CellTypeBool:
		return model.CellBool, nil
	case excelize.CellTypeDate:
		return model.CellDate, nil
	case excelize.CellTypeError:
		return model.CellError, nil
	default:
		if value == "" {
			return model.CellEmpty, nil
		}
		return model.CellNumber, nil
	}
}

// ApplyUpdates 一次性把描述更新写入指定列
func (w *Workbook) ApplyUpdates(sheet string, column int, updates []model.SignalUpdate) error {
	for _, u := range updates {
		cell, err := excelize.CoordinatesToCellName(column, u.Row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStr(sheet, cell, u.New); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// SaveAs 另存为
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save excel: %w", err)
	}
	return nil
}
