package models

import "github.com/shopspring/decimal"

// District est un district de Lima avec son tarif de livraison forfaitaire
type District struct {
	Slug string          `json:"slug"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}
