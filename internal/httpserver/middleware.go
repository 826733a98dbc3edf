package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-core/internal/service/identity"
	"storefront-core/internal/session"
)

const (
	ctxKeySession = "storefront.session"
	ctxKeyToken   = "storefront.token"
	ctxKeyUser    = "storefront.user"
)

// sessionMiddleware resolves the bearer device token, loads (or creates)
// the device's cart session and stashes it on the gin context.
func sessionMiddleware(ids *identity.Service, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("device token required"))
			return
		}
		deviceID, user, err := ids.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid device token"))
			return
		}
		sess := sessions.Get(c.Request.Context(), deviceID, user)
		c.Set(ctxKeySession, sess)
		c.Set(ctxKeyToken, token)
		if user != nil {
			c.Set(ctxKeyUser, user)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(ctxKeySession).(*session.Session)
}

func currentToken(c *gin.Context) string {
	return c.MustGet(ctxKeyToken).(string)
}

func currentUser(c *gin.Context) *identity.Identity {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil
	}
	return v.(*identity.Identity)
}
