package entity

import "github.com/shopspring/decimal"

var paisePerRupee = decimal.NewFromInt(100)

// FormatINR renders an amount in paise as rupees, e.g. 500050 -> "₹5000.50".
func FormatINR(paise int64) string {
	return "₹" + decimal.New(paise, -2).StringFixed(2)
}

// RupeesToPaise converts a rupee amount to paise, rounding half away from zero.
func RupeesToPaise(rupees decimal.Decimal) int64 {
	return rupees.Mul(paisePerRupee).Round(0).IntPart()
}
