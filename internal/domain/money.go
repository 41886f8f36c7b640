package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "฿"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount the way the till displays it, e.g. ฿1,250.00.
func FormatPrice(amount decimal.Decimal) string {
	return pricePrinter.Sprintf(currencySymbol+"%.2f", amount.Round(2).InexactFloat64())
}
