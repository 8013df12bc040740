package handlers

import (
	"net/http"
	"strconv"

	"mago-agent/internal/catalog"
	"mago-agent/internal/models"

	"github.com/gin-gonic/gin"
)

// ProductHandler exposes the product repository to the UI.
type ProductHandler struct {
	repo *catalog.Repository
}

func NewProductHandler(repo *catalog.Repository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// respondResult maps the uniform repository result onto the wire: the UI
// reads the same {success, message} shape either way.
func respondResult(c *gin.Context, res models.Result) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, res)
}

// --- GET /api/products ---
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao buscar produtos na API."})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- POST /api/products ---
func (h *ProductHandler) Create(c *gin.Context) {
	var form catalog.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respondResult(c, h.repo.Save(c.Request.Context(), form, nil))
}

// --- PUT /api/products/:id ---
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var form catalog.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	respondResult(c, h.repo.Save(c.Request.Context(), form, &id))
}

// --- DELETE /api/products/:id ---
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}
	respondResult(c, h.repo.Delete(c.Request.Context(), id))
}
