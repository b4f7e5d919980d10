package google

import (
	"fmt"
	"strconv"
	"strings"

	"budgetbot/internal/core"
)

// rowsFromValues converts a values matrix (as returned by Sheets API) into
// rows. Fully blank rows are dropped; short rows are padded.
func rowsFromValues(values [][]interface{}) []core.Row {
	out := make([]core.Row, 0, len(values))
	for _, v := range values {
		cells := toStrings(v)
		if isBlank(cells) {
			continue
		}
		out = append(out, core.RowFromCells(cells))
	}
	return out
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellString(v)
	}
	return out
}

// cellString renders an unformatted cell. Numbers arrive as float64 and are
// printed without exponent or trailing zeros.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
