package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity headers set by the upstream identity resolver.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
	HeaderClientID = "X-Client-Id"
	HeaderMemberID = "X-Member-Id"
)

const contextKey = "auth.caller"

// Resolve returns a middleware that extracts the resolved caller from the
// identity headers. Requests without a valid identity are rejected with 401.
func Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller{
			UserID:   c.GetHeader(HeaderUserID),
			Role:     Role(c.GetHeader(HeaderUserRole)),
			ClientID: c.GetHeader(HeaderClientID),
			MemberID: c.GetHeader(HeaderMemberID),
		}

		if caller.UserID == "" || !caller.Role.Valid() {
			unauthenticated(c)
			return
		}
		// A role without its identity key is as useless as no identity at all.
		if caller.Role == RoleClient && caller.ClientID == "" {
			unauthenticated(c)
			return
		}
		if caller.Role == RoleMember && caller.MemberID == "" {
			unauthenticated(c)
			return
		}

		c.Set(contextKey, caller)
		c.Next()
	}
}

// FromContext returns the caller stored by the Resolve middleware.
func FromContext(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHENTICATED",
			"message": "caller identity is missing or incomplete",
		},
	})
}
