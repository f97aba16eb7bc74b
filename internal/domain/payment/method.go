package payment

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
)

const (
	MethodPending = "Pendiente"
	MethodCredit  = "Tarjeta de Crédito"
	MethodDebit   = "Tarjeta de Débito"
)

// DiscountRate is the fixed reduction applied when a discount is requested.
var DiscountRate = decimal.NewFromInt(10)

var hundred = decimal.NewFromInt(100)

// ParseCardType maps the tipo selector (credito or debito) to the stored
// payment method.
func ParseCardType(tipo string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(tipo)) {
	case "credito", "crédito":
		return MethodCredit, nil
	case "debito", "débito":
		return MethodDebit, nil
	default:
		return "", httperr.ErrBusiness("invalid_card_type")
	}
}

func IsFinalized(method string) bool {
	return method != "" && method != MethodPending
}

// ApplyDiscount returns amount reduced by DiscountRate when apply is set,
// rounded to cents.
func ApplyDiscount(amount decimal.Decimal, apply bool) decimal.Decimal {
	if !apply {
		return amount.Round(2)
	}
	off := amount.Mul(DiscountRate).Div(hundred)
	return amount.Sub(off).Round(2)
}
