package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
)

// IncomeTotals splits income rows into credit and debit subtotals. Rows
// paid with anything else only count toward neither.
func IncomeTotals(rows []dto.IncomeRow) dto.IncomeTotals {
	t := dto.IncomeTotals{
		Credit: decimal.Zero,
		Debit:  decimal.Zero,
	}
	for _, r := range rows {
		switch {
		case strings.Contains(r.Method, "Crédito"):
			t.Credit = t.Credit.Add(r.Amount)
		case strings.Contains(r.Method, "Débito"):
			t.Debit = t.Debit.Add(r.Amount)
		}
	}
	t.Total = t.Credit.Add(t.Debit)
	return t
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
