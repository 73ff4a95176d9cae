package models

import "github.com/shopspring/decimal"

func init() {
	// Les montants sortent en nombres JSON (40.5) et non en chaînes ("40.5")
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatSoles formate un montant pour l'affichage : "S/ 160.00"
func FormatSoles(amount decimal.Decimal) string {
	return "S/ " + amount.StringFixed(2)
}
