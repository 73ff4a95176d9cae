package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	PaymentMaxRequests = 10 // par minute et par IP
	CouponMaxRequests  = 20
	rateWindow         = time.Minute
)

// RateCounter incrémente un compteur à fenêtre fixe
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit limite le nombre de requêtes par IP. Sans compteur, ou si le
// compteur est injoignable, la requête passe.
func RateLimit(counter RateCounter, prefix string, max int64, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil {
			c.Next()
			return
		}

		n, err := counter.Hit(c.Request.Context(), prefix+c.ClientIP(), rateWindow)
		if err != nil {
			log.Printf("⚠️ Compteur %s indisponible: %v", prefix, err)
			c.Next()
			return
		}

		remaining := max - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(max, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       message,
				"retry_after": int(rateWindow.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// PaymentRateLimit protège POST /api/process-payment
func PaymentRateLimit(counter RateCounter) gin.HandlerFunc {
	return RateLimit(counter, "payment_requests:", PaymentMaxRequests,
		"Demasiados intentos de pago. Inténtalo de nuevo en 1 minuto")
}

// CouponRateLimit limite le test de codes promo
func CouponRateLimit(counter RateCounter) gin.HandlerFunc {
	return RateLimit(counter, "coupon_attempts:", CouponMaxRequests,
		"Demasiados intentos de cupón. Inténtalo de nuevo en 1 minuto")
}
