package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// IsWorkbook reports whether a file name looks like an Excel workbook
// rather than delimited text.
func IsWorkbook(fileName string) bool {
	name := strings.ToLower(fileName)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// ParseWorkbook converts the first sheet of an Excel workbook into a
// RawTable, bypassing delimiter detection entirely. Blank rows are dropped
// and short rows are padded, matching Parse. The table's delimiter is set to
// comma so later re-serialization for chunk submission works unchanged.
func ParseWorkbook(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var kept [][]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		kept = append(kept, row)
	}

	if len(kept) < 2 {
		return nil, ErrEmptyFile
	}

	headers := kept[0]
	data := make([][]string, 0, len(kept)-1)
	for _, row := range kept[1:] {
		data = append(data, padRow(row, len(headers)))
	}

	return &RawTable{Headers: headers, Rows: data, Delimiter: ','}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
