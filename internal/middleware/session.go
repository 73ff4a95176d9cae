package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	CheckoutCookieName = "gravity_checkout"
	checkoutSIDKey     = "sid"
	checkoutContextKey = "checkout_sid"
)

// NewCookieStore configure le store de cookies signés du checkout
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CheckoutSession attribue à chaque navigateur un identifiant de checkout stable
func CheckoutSession(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, CheckoutCookieName)
		if err != nil {
			// cookie illisible (secret changé) : une nouvelle session est émise
			log.Printf("⚠️ Cookie de checkout invalide: %v", err)
		}
		if sess == nil {
			sess = sessions.NewSession(store, CheckoutCookieName)
		}

		sid, _ := sess.Values[checkoutSIDKey].(string)
		if _, perr := uuid.Parse(sid); perr != nil {
			sid = uuid.NewString()
			sess.Values[checkoutSIDKey] = sid
			if err := sess.Save(c.Request, c.Writer); err != nil {
				log.Println("❌ Enregistrement cookie de checkout:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la sesión de compra"})
				return
			}
		}

		c.Set(checkoutContextKey, sid)
		c.Next()
	}
}

// CheckoutSID retourne l'identifiant posé par CheckoutSession
func CheckoutSID(c *gin.Context) string {
	return c.GetString(checkoutContextKey)
}
