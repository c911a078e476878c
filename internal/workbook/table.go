package workbook

import "scadasync/internal/model"

// Cell 单元格的显示值与类型
type Cell struct {
	Value string
	Kind  model.CellKind
}

// TextCell 构造文本单元格（空串视为空单元格）
func TextCell(v string) Cell {
	if v == "" {
		return Cell{}
	}
	return Cell{Value: v, Kind: model.CellText}
}

// IsEmpty 单元格是否无值
func (c Cell) IsEmpty() bool {
	return c.Kind == model.CellEmpty || c.Value == ""
}

// Record 表中的一条数据行
type Record struct {
	Row   int // 工作表中的 1-based 行号
	cells []Cell
}

// Cell 按 1-based 列号取单元格，越界返回空单元格
func (r Record) Cell(col int) Cell {
	if col < 1 || col > len(r.cells) {
		return Cell{}
	}
	return r.cells[col-1]
}

// Value 按 1-based 列号取显示值
func (r Record) Value(col int) string {
	return r.Cell(col).Value
}

// Table 一个已加载的工作表：第 1 行为表头，之后为数据行。加载后只读。
type Table struct {
	Name    string
	header  map[string]int
	records []Record
}

// NewTable 由表头和数据行构造 Table，数据行从工作表第 2 行开始编号
func NewTable(name string, header []string, rows [][]Cell) *Table {
	t := &Table{
		Name:    name,
		header:  buildHeader(header),
		records: make([]Record, 0, len(rows)),
	}
	for i, cells := range rows {
		t.records = append(t.records, Record{Row: i + 2, cells: cells})
	}
	return t
}

// buildHeader 表头文本 -> 1-based 列号；空表头忽略，重复表头以最后一次为准
func buildHeader(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		m[h] = i + 1
	}
	return m
}

// Column 按表头文本精确查找列号
func (t *Table) Column(name string) (int, bool) {
	col, ok := t.header[name]
	return col, ok
}

// MissingColumns 返回 names 中表头不存在的列
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := t.header[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Records 数据行（不含表头）
func (t *Table) Records() []Record {
	return t.records
}

// Len 数据行数
func (t *Table) Len() int {
	return len(t.records)
}
