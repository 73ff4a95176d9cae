package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

var ErrYapeDisabled = errors.New("numéro Yape non configuré")

// GenerateYapeQR génère un QR de paiement Yape en base64 prêt à mettre dans <img src="...">
func GenerateYapeQR(phone, holder string, amount decimal.Decimal) (string, error) {
	if phone == "" {
		return "", ErrYapeDisabled
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("montant invalide: %s", amount)
	}

	png, err := qrcode.Encode(YapePayload(phone, holder, amount), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// YapePayload est le texte encodé dans le QR
func YapePayload(phone, holder string, amount decimal.Decimal) string {
	q := url.Values{}
	q.Set("phone", phone)
	q.Set("amount", amount.StringFixed(2))
	if holder != "" {
		q.Set("holder", holder)
	}
	return "yape://payment?" + q.Encode()
}
