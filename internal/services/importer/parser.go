// Package importer reads brokerage CSV position exports
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownFormat = errors.New("unknown CSV format")
	ErrEmptyFile     = errors.New("CSV file is empty")
	ErrNoData        = errors.New("no valid positions found")
)

// Position is one row of an export, normalised
type Position struct {
	Symbol    string
	Name      string
	Quantity  decimal.Decimal
	CostBasis decimal.Decimal // total, zero when the export omits it
}

// AverageCost returns cost basis per unit, or zero when unknown
func (p Position) AverageCost() decimal.Decimal {
	if p.CostBasis.IsZero() || p.Quantity.IsZero() {
		return decimal.Zero
	}
	return p.CostBasis.Div(p.Quantity).Round(4)
}

// ParseResult contains the result of parsing a CSV file
type ParseResult struct {
	Positions []Position
	Source    string
	Skipped   []string // row descriptions that could not be used
}

// Parse auto-detects the export format and reads its positions. Summary,
// cash and zero-quantity rows are skipped.
func Parse(reader io.Reader) (*ParseResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1 // Allow variable fields
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	// Header might not be the first row
	headerIdx, header := findHeader(records)
	if headerIdx < 0 {
		return nil, ErrUnknownFormat
	}

	var format *Format
	for i := range formats {
		if formats[i].Detect(header) {
			format = &formats[i]
			break
		}
	}
	if format == nil {
		return nil, ErrUnknownFormat
	}

	result := &ParseResult{Source: format.Name}
	columns := columnIndex(header)
	for i, row := range records[headerIdx+1:] {
		if isSkipRow(row) {
			continue
		}
		p, ok := format.parseRow(row, columns)
		if !ok {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d", headerIdx+i+2))
			continue
		}
		result.Positions = append(result.Positions, p)
	}

	if len(result.Positions) == 0 {
		return nil, ErrNoData
	}
	return result, nil
}

func findHeader(records [][]string) (int, []string) {
	// Common header keywords
	keywords := []string{"symbol", "ticker", "description", "quantity", "shares", "price", "value"}

	for i, row := range records {
		if len(row) < 2 {
			continue
		}
		rowStr := strings.ToLower(strings.Join(row, " "))
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(rowStr, kw) {
				matches++
			}
		}
		if matches >= 2 {
			return i, row
		}
	}
	return -1, nil
}

func columnIndex(header []string) map[string]int {
	colMap := make(map[string]int, len(header))
	for i, h := range header {
		colMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return colMap
}

func isSkipRow(row []string) bool {
	if len(row) == 0 {
		return true
	}

	// Skip total/summary rows
	firstCell := strings.ToLower(strings.TrimSpace(row[0]))
	if firstCell == "" {
		return true
	}
	skipPrefixes := []string{"total", "account total", "cash", "pending", "--", "***"}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(firstCell, prefix) && len(firstCell) < 20 {
			return true
		}
	}
	return false
}

// Helper functions for parsing values

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "%", "")

	// Handle parentheses for negative numbers
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	if s == "" || s == "--" || strings.EqualFold(s, "n/a") {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func cleanTicker(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimRight(s, " *")
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	// Truncate very long names
	if len(s) > 100 {
		s = s[:100] + "..."
	}
	return s
}
