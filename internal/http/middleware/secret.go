package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	DebugSecretHeader    = "X-Debug-Secret"
)

// RequireSecret aborts with 401 unless header carries secret. An empty secret disables the
// check.
func RequireSecret(header, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if !SecretMatches(c.GetHeader(header), secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "bad secret"})
			return
		}
		c.Next()
	}
}

func SecretMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
