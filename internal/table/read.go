package table

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/sitemeta/internal/ctxlog"
)

// Options controls how a source file is read.
type Options struct {
	// Sheet selects the workbook sheet; empty means the first one. Ignored
	// for CSV files.
	Sheet string
}

// Extensions lists the file extensions Read understands.
var Extensions = []string{".xlsx", ".xlsm", ".csv"}

// Read loads the file at path, choosing the reader by extension.
func Read(ctx context.Context, path string, opts Options) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	ext := strings.ToLower(filepath.Ext(path))
	logger.Debug("Reading source table.", "path", path, "format", ext)

	var (
		t   *Table
		err error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		t, err = readWorkbook(ctx, path, opts.Sheet)
	case ".csv":
		t, err = readCSV(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Source table loaded.", "path", path, "columns", len(t.Headers), "rows", t.Len())
	return t, nil
}

// Supported reports whether path has an extension Read understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// splitRecords turns raw records into a header and typed rows, dropping rows
// whose cells are all missing.
func splitRecords(path string, records [][]any) *Table {
	if len(records) == 0 {
		return New(path, nil, nil)
	}
	headerCells := records[0]
	headers := make([]string, len(headerCells))
	for i, c := range headerCells {
		if c != nil {
			headers[i] = fmt.Sprint(c)
		}
	}

	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return New(path, headers, rows)
}

func isBlank(cells []any) bool {
	for _, c := range cells {
		if c != nil {
			return false
		}
	}
	return true
}
