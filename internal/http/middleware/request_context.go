package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pactumhq/pactum-backend/internal/http/response"
	"github.com/pactumhq/pactum-backend/internal/pkg/ctxutil"
	"github.com/pactumhq/pactum-backend/internal/services"
)

// ResolveActor attaches the acting identity to the request context. The seed
// user is created on first use, so a fresh database passes through here once
// with an insert.
func ResolveActor(userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := userService.CurrentUser(c.Request.Context())
		if err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "actor_unavailable", err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
