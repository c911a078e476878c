package model

// 工作簿约定的表名与列名（按表头文本精确匹配）
const (
	PrimarySheetName = "SCADA_SIGNAL"

	ColumnTagName     = "Tag Name"
	ColumnDescription = "Description"
	ColumnUDTType     = "UDT Type"

	ColumnScadaTagPath = "Scada Tag Path"
	ColumnDB           = "DB"
)

// CellKind 单元格取值类型
type CellKind int

const (
	CellEmpty   CellKind = iota // 空单元格
	CellText                    // 普通文本
	CellNumber                  // 数值
	CellBool                    // 布尔
	CellDate                    // 日期
	CellError                   // 错误值（#N/A 等）
	CellFormula                 // 公式（含公式字符串结果）
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	case CellDate:
		return "date"
	case CellError:
		return "error"
	case CellFormula:
		return "formula"
	default:
		return "unknown"
	}
}
