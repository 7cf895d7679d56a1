package models

import (
	"sort"

	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
)

func init() {
	core.Register(core.ModelDefinition{
		Key:   "res.currency",
		Label: "Currency",
		Fields: []core.Field{
			{Name: "name", Label: "Currency", Type: guess.TypeChar, Required: true},
			{Name: "symbol", Label: "Symbol", Type: guess.TypeChar, Required: true},
			{Name: "rounding", Label: "Rounding Factor", Type: guess.TypeFloat},
			{Name: "active", Label: "Active", Type: guess.TypeBoolean},
		},
	})
}

// Currencies maps ISO 4217 codes to the symbol written next to amounts.
var Currencies = map[string]string{
	"AUD": "A$",
	"BRL": "R$",
	"CAD": "C$",
	"CHF": "CHF",
	"CNY": "¥",
	"CZK": "Kč",
	"DKK": "kr",
	"EUR": "€",
	"GBP": "£",
	"HKD": "HK$",
	"INR": "₹",
	"JPY": "¥",
	"KRW": "₩",
	"MXN": "MX$",
	"NOK": "kr",
	"NZD": "NZ$",
	"PLN": "zł",
	"RUB": "₽",
	"SEK": "kr",
	"TRY": "₺",
	"USD": "$",
	"ZAR": "R",
}

// CurrencySymbols returns every code and symbol of Currencies as a lookup.
// Used when no database is configured.
func CurrencySymbols() guess.SymbolSet {
	symbols := make([]string, 0, 2*len(Currencies))
	for code, sym := range Currencies {
		symbols = append(symbols, code, sym)
	}
	return guess.NewSymbolSet(symbols...)
}

// CurrencyCodes returns the codes of Currencies in sorted order.
func CurrencyCodes() []string {
	codes := make([]string, 0, len(Currencies))
	for code := range Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
