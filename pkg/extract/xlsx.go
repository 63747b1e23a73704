package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXlsx flattens every worksheet in workbook order: cells joined
// by a single space, rows joined by newline. Rows are padded to the
// sheet's widest row so an empty trailing cell still contributes an
// empty string.
func extractXlsx(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var out []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		for _, row := range rows {
			cells := make([]string, width)
			copy(cells, row)
			out = append(out, strings.Join(cells, " "))
		}
	}
	return strings.Join(out, "\n"), nil
}
