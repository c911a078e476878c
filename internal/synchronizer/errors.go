package synchronizer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingInput 未指定源工作簿
var ErrMissingInput = errors.New("please select an Excel file")

// SchemaError 目标表缺失或缺少必需列
type SchemaError struct {
	Sheet        string
	SheetMissing bool
	Missing      []string
}

func (e *SchemaError) Error() string {
	if e.SheetMissing {
		return fmt.Sprintf("%s sheet not found", e.Sheet)
	}
	return fmt.Sprintf("missing required columns in %s: %s", e.Sheet, strings.Join(e.Missing, ", "))
}
