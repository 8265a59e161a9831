package session

import (
	"github.com/gin-gonic/gin"
)

// HeaderName is the request header carrying an existing session id.
const HeaderName = "X-Session-ID"

// contextKey is the gin context key under which the session id is stored.
const contextKey = "session_id"

// Middleware resolves the visitor's session id for the request. An id
// supplied via the X-Session-ID header or the named cookie is reused if it
// validates; otherwise a fresh id is minted and set as a session cookie so
// it stays stable for the lifetime of the browsing session, surviving
// reloads without ever being regenerated mid-session.
func Middleware(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderName)
		if !Valid(id) {
			if cookieVal, err := c.Cookie(cookieName); err == nil {
				id = cookieVal
			}
		}

		if !Valid(id) {
			id = NewID()
			// Max-Age 0 keeps the cookie session-scoped.
			c.SetCookie(cookieName, id, 0, "/", "", false, true)
		}

		c.Set(contextKey, id)
		c.Header(HeaderName, id)
		c.Next()
	}
}

// FromContext returns the session id resolved by Middleware, or an empty
// string when the middleware did not run.
func FromContext(c *gin.Context) string {
	id, _ := c.Get(contextKey)
	s, _ := id.(string)
	return s
}
