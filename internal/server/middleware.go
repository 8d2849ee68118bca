package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	obscontext "github.com/estilistapro/estilista/internal/observability/context"
	"github.com/estilistapro/estilista/internal/usercontext"
)

// UserRequired resolves the acting user for the request. Multi-user
// deployments must send X-User-Id; standalone installs fall back to the
// configured default user so a local app works without headers.
func (s *Server) UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.resolveUserID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := usercontext.WithUserID(c.Request.Context(), userID)
		ctx = obscontext.WithUserID(ctx, strconv.FormatInt(userID, 10))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (s *Server) resolveUserID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-User-Id"))
	if raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return 0, false
		}
		return parsed, true
	}

	if s.cfg.IsStandalone() && s.cfg.DefaultUserID > 0 {
		return s.cfg.DefaultUserID, true
	}
	return 0, false
}
