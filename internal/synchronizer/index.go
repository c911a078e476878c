package synchronizer

import (
	"fmt"

	"scadasync/internal/model"
	"scadasync/internal/workbook"
)

// BuildIndex 从除 exclude 外的所有区域表读取 (表名, Tag Name) -> Description
//
// 缺少 Tag Name 或 Description 列的表直接跳过；标签或描述为空的行跳过；
// 同一个键出现多次时以最后一次为准。
func BuildIndex(src workbook.Source, exclude string, progress func(ProgressEvent)) (model.DescriptionIndex, error) {
	entries := make(map[model.DescriptionKey]model.DescriptionEntry)
	var sheets []model.SheetSummary

	for _, name := range src.SheetNames() {
		if name == exclude {
			continue
		}

		table, err := src.Table(name, model.ColumnDescription)
		if err != nil {
			return model.DescriptionIndex{}, err
		}

		summary := model.SheetSummary{Sheet: name, Rows: table.Len()}
		if missing := table.MissingColumns(model.ColumnTagName, model.ColumnDescription); len(missing) > 0 {
			summary.Missing = missing
			sheets = append(sheets, summary)
			continue
		}
		tagCol, _ := table.Column(model.ColumnTagName)
		descCol, _ := table.Column(model.ColumnDescription)
		udtCol, hasUDT := table.Column(model.ColumnUDTType)

		count := 0
		for _, rec := range table.Records() {
			tag := rec.Cell(tagCol)
			desc := rec.Cell(descCol)
			if tag.IsEmpty() || desc.IsEmpty() {
				continue
			}

			entry := model.DescriptionEntry{
				Description:     desc.Value,
				DescriptionKind: desc.Kind,
			}
			if hasUDT {
				entry.UDTType = rec.Value(udtCol)
			}
			entries[model.DescriptionKey{Table: name, Tag: tag.Value}] = entry
			count++
		}

		summary.Tags = count
		sheets = append(sheets, summary)
		reportProgress(progress, EventSheet, fmt.Sprintf("  %s: %d tags", name, count), summary)
	}

	idx := model.NewDescriptionIndex(entries, sheets...)
	reportProgress(progress, EventInfo, fmt.Sprintf("Total tags loaded: %d", idx.Len()), map[string]int{"total": idx.Len()})
	return idx, nil
}
