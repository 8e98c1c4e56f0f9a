package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pactumhq/pactum-backend/internal/http/response"
	"github.com/pactumhq/pactum-backend/internal/pkg/ctxutil"
	"github.com/pactumhq/pactum-backend/internal/services"
	"github.com/pactumhq/pactum-backend/internal/types"
	"github.com/pactumhq/pactum-backend/internal/validation"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	actor := ctxutil.GetActor(c.Request.Context())
	if actor == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "actor_unavailable",
			errors.New("no acting identity resolved"))
		return
	}
	response.RespondOK(c, gin.H{"me": actor})
}

// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req validation.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), req.Email, req.Name, types.UserRole(req.Role))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}
