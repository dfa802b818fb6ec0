package table

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/xuri/excelize/v2"
)

func readWorkbook(ctx context.Context, path, sheet string) (*Table, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s': %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("Failed to close workbook.", "path", path, "error", cerr)
		}
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook '%s' has no sheets", path)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook '%s' has no sheet named %q", path, sheet)
	}
	logger.Debug("Reading workbook sheet.", "path", path, "sheet", sheet)

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of '%s': %w", sheet, path, err)
	}

	records := make([][]any, len(raw))
	for r, cols := range raw {
		cells := make([]any, len(cols))
		for c, text := range cols {
			if r == 0 {
				cells[c] = text
				continue
			}
			v, err := workbookCell(f, sheet, c+1, r+1, text)
			if err != nil {
				return nil, err
			}
			cells[c] = v
		}
		records[r] = cells
	}
	return splitRecords(path, records), nil
}

// workbookCell types one cell from its raw stored value. Text cells only
// have missing markers interpreted, numbers are inferred from the unformatted
// value and date-formatted cells keep their display text.
func workbookCell(f *excelize.File, sheet string, col, row int, text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read type of cell %s: %w", name, err)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return parseText(text), nil
	case excelize.CellTypeBool:
		return text == "TRUE" || text == "1", nil
	case excelize.CellTypeError:
		return nil, nil
	case excelize.CellTypeDate:
		return formattedCell(f, sheet, name)
	}

	date, err := hasDateFormat(f, sheet, name)
	if err != nil {
		return nil, err
	}
	if date {
		return formattedCell(f, sheet, name)
	}
	return parseCell(text), nil
}

func formattedCell(f *excelize.File, sheet, name string) (any, error) {
	text, err := f.GetCellValue(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s: %w", name, err)
	}
	return parseText(text), nil
}

// hasDateFormat reports whether the cell's number format renders a date or
// time, either as a built-in format id or a custom format code.
func hasDateFormat(f *excelize.File, sheet, name string) (bool, error) {
	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil {
		return false, fmt.Errorf("failed to read style of cell %s: %w", name, err)
	}
	if styleID == 0 {
		return false, nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return false, fmt.Errorf("failed to read style %d: %w", styleID, err)
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt), nil
	}
	return isDateFormatID(style.NumFmt), nil
}

func isDateFormatID(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for date or time tokens outside quoted literals and
// bracketed sections such as colors or locales.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}
