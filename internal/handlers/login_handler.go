package handlers

import (
	"log"
	"net/http"

	"mago-agent/internal/auth"
	"mago-agent/internal/gateway"
	"mago-agent/internal/models"
	"mago-agent/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// SessionHandler drives the multi-account session flow: login, account
// listing, switching and logout.
type SessionHandler struct {
	manager    *session.Manager
	adminEmail string
	adminHash  []byte
}

// NewSessionHandler wires the manager plus the optional local admin
// fallback (for environments without the OAuth popup). The password is
// hashed once here and never kept in clear.
func NewSessionHandler(manager *session.Manager, adminEmail, adminPassword string) *SessionHandler {
	h := &SessionHandler{manager: manager, adminEmail: adminEmail}
	if adminEmail != "" && adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("session: could not hash admin password, local login disabled: %v", err)
		} else {
			h.adminHash = hash
		}
	}
	return h
}

type loginInput struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionHandler) tokenResponse(c *gin.Context, user models.UserIdentity) {
	token, err := auth.GenerateToken(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// --- POST /login ---
// With an OAuth token the identity comes from the backend. Without one,
// the local admin credential pair is accepted as a fallback.
func (h *SessionHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Token != "" {
		user, err := h.manager.Login(c.Request.Context(), input.Token, input.Email, input.Password)
		if err != nil {
			gerr := gateway.AsError(err)
			status := http.StatusBadGateway
			if gerr.Kind == gateway.KindServer {
				status = http.StatusUnauthorized
			}
			c.JSON(status, gin.H{"error": gerr.Message})
			return
		}
		h.tokenResponse(c, user)
		return
	}

	// Local fallback path.
	if h.adminHash == nil || input.Email != h.adminEmail {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Acesso negado."})
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.adminHash, []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Acesso negado."})
		return
	}

	user := models.UserIdentity{Email: h.adminEmail, Name: "Administrador"}
	h.manager.Adopt(user)
	h.tokenResponse(c, user)
}

// --- GET /api/session/accounts ---
func (h *SessionHandler) Accounts(c *gin.Context) {
	activeEmail := ""
	if active, ok := h.manager.Active(); ok {
		activeEmail = active.Email
	}
	c.JSON(http.StatusOK, gin.H{
		"accounts": h.manager.Accounts(),
		"active":   activeEmail,
	})
}

type switchInput struct {
	Email string `json:"email" binding:"required"`
}

// --- POST /api/session/switch ---
func (h *SessionHandler) Switch(c *gin.Context) {
	var input switchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.manager.Switch(input.Email); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conta não encontrada."})
		return
	}

	user, _ := h.manager.Active()
	h.tokenResponse(c, user)
}

// --- POST /api/session/logout ---
// Removes the session's own identity. When another account remains it is
// promoted and a token for it comes back; otherwise the session ends.
func (h *SessionHandler) Logout(c *gin.Context) {
	email := c.GetString("email")

	promoted, ok := h.manager.Logout(email)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"token": nil, "user": nil})
		return
	}
	h.tokenResponse(c, promoted)
}
