package report

import (
	"strings"
)

// EscapeCSVCell protects against CSV formula injection attacks
// by escaping cells that start with dangerous characters
func EscapeCSVCell(value string) string {
	if value == "" {
		return value
	}

	firstChar := value[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		return "'" + value
	}

	if strings.HasPrefix(value, "|") || strings.HasPrefix(value, "%") {
		return "'" + value
	}

	if strings.HasPrefix(value, "\t") {
		return "'" + value
	}

	if strings.HasPrefix(value, "\r") || strings.HasPrefix(value, "\n") {
		return "'" + value
	}

	return value
}

// EscapeCSVRow escapes all cells in a row
func EscapeCSVRow(row []string) []string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = EscapeCSVCell(cell)
	}
	return escaped
}
