package handlers

import (
	"net/http"

	"mago-agent/internal/gateway"

	"github.com/gin-gonic/gin"
)

// PendingUser is an access request awaiting an administrator's decision.
type PendingUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminHandler proxies the backend's user-administration endpoints.
type AdminHandler struct {
	gw *gateway.Client
}

func NewAdminHandler(gw *gateway.Client) *AdminHandler {
	return &AdminHandler{gw: gw}
}

// --- GET /api/admin/users/pending ---
func (h *AdminHandler) PendingUsers(c *gin.Context) {
	var pending []PendingUser
	if err := h.gw.GetJSON(c.Request.Context(), "/admin/users/pending", &pending); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": gateway.AsError(err).Message})
		return
	}
	c.JSON(http.StatusOK, pending)
}

type decideInput struct {
	ID     int    `json:"id" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// --- POST /api/admin/users/decide ---
func (h *AdminHandler) DecideUser(c *gin.Context) {
	var input decideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := h.gw.Send(c.Request.Context(), http.MethodPost, "/admin/users/decide", input, nil)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": gateway.AsError(err).Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Decisão registrada com sucesso!"})
}
