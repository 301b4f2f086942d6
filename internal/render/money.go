package render

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency every portfolio value is displayed in.
const Currency = money.USD

// formatMoney renders amount in Currency, rounded to its minor unit.
func formatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), Currency).Display()
}

func formatMoneyFloat(amount float64) string {
	return formatMoney(decimal.NewFromFloat(amount))
}

// formatPercent renders a value that is already in percent.
func formatPercent(p decimal.Decimal) string {
	return fmt.Sprintf("%s%%", p.StringFixed(2))
}

func formatSignedPercent(p decimal.Decimal) string {
	if p.IsPositive() {
		return "+" + formatPercent(p)
	}
	return formatPercent(p)
}
