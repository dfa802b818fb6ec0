package table

import (
	"strconv"
	"strings"
)

// naValues are the cell texts treated as a missing value.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// parseCell infers a typed value from cell text: missing markers become nil,
// integers int64, other numbers float64, TRUE/FALSE bool. Anything else is
// returned verbatim.
func parseCell(s string) any {
	if isNA(s) {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	switch trimmed {
	case "True", "TRUE", "true":
		return true
	case "False", "FALSE", "false":
		return false
	}
	return s
}

// parseText is used for cells the workbook marks as text: only missing
// markers are interpreted.
func parseText(s string) any {
	if isNA(s) {
		return nil
	}
	return s
}

func isNA(s string) bool {
	_, ok := naValues[s]
	return ok
}
