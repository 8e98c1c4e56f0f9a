package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pactumhq/pactum-backend/internal/store"
)

type HealthHandler struct {
	storeName string
	mirrored  *store.MirroredStore
}

func NewHealthHandler(storeName string, mirrored *store.MirroredStore) *HealthHandler {
	return &HealthHandler{storeName: storeName, mirrored: mirrored}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"store":  h.storeName,
	}
	if h.mirrored != nil {
		body["mirror"] = h.mirrored.Stats()
	}
	c.JSON(http.StatusOK, body)
}
