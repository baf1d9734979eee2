package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// Context keys set by the bearer middleware.
const (
	ctxUserID = "userId"
	ctxEmail  = "email"
)

// bearer authenticates the Authorization header and stores the caller's id
// in the context.
func (s *Server) bearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, clierr.New(clierr.NotLoggedIn, "authorization header is missing"))
			c.Abort()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			fail(c, clierr.New(clierr.NotLoggedIn, "invalid authorization header"))
			c.Abort()
			return
		}

		id, err := s.deps.Auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			fail(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUserID, id.UserID)
		c.Set(ctxEmail, id.Email)
		c.Next()
	}
}
