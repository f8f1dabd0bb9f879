package importer

import (
	"strings"
)

// Format describes one brokerage export layout by its column names.
// Each field lists accepted header names, first match wins.
type Format struct {
	Name      string
	Required  []string
	MinMatch  int
	Symbol    []string
	Desc      []string
	Quantity  []string
	CostBasis []string
}

// formats are tried in order; the generic layout comes last
var formats = []Format{
	{
		Name:      "schwab_csv",
		Required:  []string{"symbol", "description", "quantity", "price", "market value"},
		MinMatch:  5,
		Symbol:    []string{"symbol"},
		Desc:      []string{"description", "security description"},
		Quantity:  []string{"quantity", "shares"},
		CostBasis: []string{"cost basis", "cost basis total"},
	},
	{
		Name:      "fidelity_csv",
		Required:  []string{"symbol", "description", "quantity", "last price", "current value"},
		MinMatch:  5,
		Symbol:    []string{"symbol"},
		Desc:      []string{"description", "security description"},
		Quantity:  []string{"quantity", "shares"},
		CostBasis: []string{"cost basis total", "cost basis"},
	},
	{
		Name:      "vanguard_csv",
		Required:  []string{"symbol", "investment name", "shares", "share price", "total value"},
		MinMatch:  4,
		Symbol:    []string{"symbol", "ticker"},
		Desc:      []string{"investment name", "name", "description"},
		Quantity:  []string{"shares", "quantity"},
		CostBasis: []string{"cost basis", "total cost"},
	},
	{
		Name:      "generic_csv",
		Required:  []string{"symbol", "quantity"},
		MinMatch:  2,
		Symbol:    []string{"symbol", "ticker"},
		Desc:      []string{"name", "description"},
		Quantity:  []string{"quantity", "shares", "amount"},
		CostBasis: []string{"cost basis", "cost"},
	},
}

// Detect reports whether header matches this layout. Header cells match a
// required column when they equal it exactly.
func (f Format) Detect(header []string) bool {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	matches := 0
	for _, req := range f.Required {
		if present[req] {
			matches++
		}
	}
	return matches >= f.MinMatch
}

func (f Format) parseRow(row []string, columns map[string]int) (Position, bool) {
	getCol := func(names []string) string {
		for _, name := range names {
			if idx, ok := columns[name]; ok && idx < len(row) {
				return row[idx]
			}
		}
		return ""
	}

	ticker := cleanTicker(getCol(f.Symbol))
	if ticker == "" || ticker == "CASH" || strings.HasPrefix(ticker, "--") {
		return Position{}, false
	}

	quantity := parseDecimal(getCol(f.Quantity))
	if !quantity.IsPositive() {
		return Position{}, false
	}

	return Position{
		Symbol:    ticker,
		Name:      cleanName(getCol(f.Desc)),
		Quantity:  quantity,
		CostBasis: parseDecimal(getCol(f.CostBasis)).Abs(),
	}, true
}
