package model

// DescriptionKey 描述索引键：区域表名 + 标签名（均按原值，不做规范化）
type DescriptionKey struct {
	Table string
	Tag   string
}

// DescriptionEntry 区域表中某个标签的标准描述
type DescriptionEntry struct {
	Description     string   `json:"description"`
	DescriptionKind CellKind `json:"descriptionKind"`
	UDTType         string   `json:"udtType,omitempty"`
}

// IsText 描述是否为普通文本（公式、数值等不参与同步）
func (e DescriptionEntry) IsText() bool {
	return e.DescriptionKind == CellText
}

// SheetSummary 建索引时单张表的读取情况
type SheetSummary struct {
	Sheet   string   `json:"sheet"`
	Rows    int      `json:"rows"`
	Tags    int      `json:"tags"`
	Missing []string `json:"missing,omitempty"` // 缺失的必需列，非空表示整表被跳过
}

// Skipped 是否因缺列被跳过
func (s SheetSummary) Skipped() bool {
	return len(s.Missing) > 0
}

// DescriptionIndex 只读描述索引，构建完成后不再修改
type DescriptionIndex struct {
	entries map[DescriptionKey]DescriptionEntry
	sheets  []SheetSummary
}

// NewDescriptionIndex 由构建好的 map 创建索引（调用方之后不应再修改该 map）
func NewDescriptionIndex(entries map[DescriptionKey]DescriptionEntry, sheets ...SheetSummary) DescriptionIndex {
	if entries == nil {
		entries = map[DescriptionKey]DescriptionEntry{}
	}
	return DescriptionIndex{entries: entries, sheets: sheets}
}

// Lookup 查找描述
func (idx DescriptionIndex) Lookup(table, tag string) (DescriptionEntry, bool) {
	e, ok := idx.entries[DescriptionKey{Table: table, Tag: tag}]
	return e, ok
}

// Len 索引条目数
func (idx DescriptionIndex) Len() int {
	return len(idx.entries)
}

// Sheets 参与建索引的各表概要（按工作簿顺序）
func (idx DescriptionIndex) Sheets() []SheetSummary {
	out := make([]SheetSummary, len(idx.sheets))
	copy(out, idx.sheets)
	return out
}
