package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/sitemeta/internal/ctxlog"
)

const utf8BOM = "\ufeff"

func readCSV(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", path, err)
	}
	defer f.Close()

	return parseCSV(ctx, path, f)
}

func parseCSV(ctx context.Context, path string, r io.Reader) (*Table, error) {
	logger := ctxlog.FromContext(ctx)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]any
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV '%s': %w", path, err)
		}
		cells := make([]any, len(rec))
		if len(records) == 0 {
			// Header cells are names, not values.
			for i, s := range rec {
				cells[i] = strings.TrimPrefix(s, utf8BOM)
			}
		} else {
			for i, s := range rec {
				cells[i] = parseCell(s)
			}
		}
		records = append(records, cells)
	}
	logger.Debug("CSV records parsed.", "path", path, "records", len(records))
	return splitRecords(path, records), nil
}
