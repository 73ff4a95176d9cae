package payement

import (
	"errors"
	"net/http"

	"gravity_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// YapeQR génère le QR de paiement Yape : GET /api/yape/qr?amount=
func (h *Handler) YapeQR(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Monto inválido"})
		return
	}
	amount = amount.Round(2)

	qr, err := utils.GenerateYapeQR(h.opts.YapePhone, h.opts.YapeHolder, amount)
	if errors.Is(err, utils.ErrYapeDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Yape no está disponible"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el código QR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qr":     qr,
		"phone":  h.opts.YapePhone,
		"holder": h.opts.YapeHolder,
		"amount": amount,
	})
}
