package synchronizer

import (
	"strings"

	"scadasync/internal/model"
	"scadasync/internal/workbook"
)

// Reconcile 计算 SCADA_SIGNAL 各行应有的描述，返回需要写回的更新（不修改表本身）
//
// Scada Tag Path 按 "." 拆分，第 2 段为区域标签、第 3 段为变量后缀；
// DB 列给出区域表名。缺少 DB 列时所有行都会被跳过。
func Reconcile(primary *workbook.Table, idx model.DescriptionIndex) (model.ReconcileResult, error) {
	result := model.ReconcileResult{Updates: []model.SignalUpdate{}}

	if missing := primary.MissingColumns(model.ColumnScadaTagPath, model.ColumnDescription); len(missing) > 0 {
		return result, &SchemaError{Sheet: primary.Name, Missing: missing}
	}

	pathCol, _ := primary.Column(model.ColumnScadaTagPath)
	descCol, _ := primary.Column(model.ColumnDescription)
	dbCol, hasDB := primary.Column(model.ColumnDB)
	result.Column = descCol

	for _, rec := range primary.Records() {
		path := rec.Value(pathCol)
		db := ""
		if hasDB {
			db = rec.Value(dbCol)
		}
		if path == "" || db == "" {
			continue
		}

		parts := strings.Split(path, ".")
		if len(parts) < 3 {
			continue
		}
		baseTag, variant := parts[1], parts[2]
		result.Processed++

		entry, ok := idx.Lookup(db, baseTag)
		if !ok || !entry.IsText() {
			continue
		}

		expected := ExpectedDescription(entry.Description, variant)
		current := rec.Value(descCol)
		if current != "" && strings.TrimSpace(current) == strings.TrimSpace(expected) {
			continue
		}

		result.Updates = append(result.Updates, model.SignalUpdate{
			Row:     rec.Row,
			Path:    path,
			DB:      db,
			BaseTag: baseTag,
			Variant: variant,
			Old:     current,
			New:     expected,
		})
		result.Updated++
	}

	return result, nil
}
