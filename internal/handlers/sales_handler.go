package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"mago-agent/internal/catalog"
	"mago-agent/internal/models"
	"mago-agent/internal/sales"

	"github.com/gin-gonic/gin"
)

// draft is one user's in-progress sale: the line-item builder plus, in edit
// mode, the id of the sale being replaced. mu serializes access to the
// builder; the handler's own mutex only guards the drafts map.
type draft struct {
	mu      sync.Mutex
	builder *sales.Builder
	editID  *int
}

// SalesHandler exposes the sale repository and the draft workflow. Drafts
// are keyed by the session's identity email, so each account assembles its
// own sale independently.
type SalesHandler struct {
	repo    *sales.Repository
	catalog *catalog.Repository

	mu     sync.Mutex
	drafts map[string]*draft
}

func NewSalesHandler(repo *sales.Repository, cat *catalog.Repository) *SalesHandler {
	return &SalesHandler{
		repo:    repo,
		catalog: cat,
		drafts:  make(map[string]*draft),
	}
}

func sessionEmail(c *gin.Context) string {
	return c.GetString("email")
}

// draftView is what the UI re-renders from after every draft mutation.
type draftView struct {
	Items []models.SaleItem `json:"items"`
	Total float64           `json:"total"`
}

func viewOf(d *draft) draftView {
	return draftView{Items: d.builder.Items(), Total: d.builder.Total()}
}

// --- GET /api/sales ---
func (h *SalesHandler) List(c *gin.Context) {
	salesList, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao buscar vendas na API."})
		return
	}
	c.JSON(http.StatusOK, salesList)
}

// --- DELETE /api/sales/:id ---
func (h *SalesHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Sale ID"})
		return
	}
	respondResult(c, h.repo.Delete(c.Request.Context(), id))
}

type openDraftRequest struct {
	SaleID *int `json:"sale_id"`
}

// --- POST /api/draft ---
// Opens a fresh draft over the current catalog. With sale_id set, the
// existing sale's items are loaded for editing.
func (h *SalesHandler) OpenDraft(c *gin.Context) {
	var req openDraftRequest
	// An empty body means a brand-new sale.
	_ = c.ShouldBindJSON(&req)

	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao carregar produtos."})
		return
	}

	d := &draft{builder: sales.NewBuilder(products)}

	if req.SaleID != nil {
		sale, found := findSale(h.repo.Cached(), *req.SaleID)
		if !found {
			// The cache is cold right after startup; fetch before giving up.
			if fresh, err := h.repo.List(c.Request.Context()); err == nil {
				sale, found = findSale(fresh, *req.SaleID)
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Venda não encontrada."})
			return
		}
		d.builder.Load(sale.Itens)
		d.editID = req.SaleID
	}

	h.mu.Lock()
	h.drafts[sessionEmail(c)] = d
	h.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	c.JSON(http.StatusOK, viewOf(d))
}

func findSale(salesList []models.Sale, id int) (models.Sale, bool) {
	for _, s := range salesList {
		if s.ID == id {
			return s, true
		}
	}
	return models.Sale{}, false
}

func (h *SalesHandler) currentDraft(c *gin.Context) (*draft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.drafts[sessionEmail(c)]
	return d, ok
}

// --- GET /api/draft ---
func (h *SalesHandler) GetDraft(c *gin.Context) {
	d, ok := h.currentDraft(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum rascunho de venda aberto."})
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c.JSON(http.StatusOK, viewOf(d))
}

type addItemRequest struct {
	ProductID int `json:"product_id"`
	// Quantity is whatever the form sent; non-numeric input means 1.
	Quantity any `json:"quantity"`
}

// --- POST /api/draft/items ---
func (h *SalesHandler) AddItem(c *gin.Context) {
	d, ok := h.currentDraft(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum rascunho de venda aberto."})
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	quantity := sales.ParseQuantity(req.Quantity)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.builder.Add(req.ProductID, quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, viewOf(d))
}

// --- DELETE /api/draft/items/:productId ---
func (h *SalesHandler) RemoveItem(c *gin.Context) {
	d, ok := h.currentDraft(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum rascunho de venda aberto."})
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.builder.Remove(productID)
	c.JSON(http.StatusOK, viewOf(d))
}

// --- POST /api/draft/save ---
func (h *SalesHandler) SaveDraft(c *gin.Context) {
	d, ok := h.currentDraft(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum rascunho de venda aberto."})
		return
	}

	var form sales.SaleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	d.mu.Lock()
	items, editID := d.builder.Items(), d.editID
	d.mu.Unlock()

	res := h.repo.Save(c.Request.Context(), form, items, editID)
	if res.Success {
		h.mu.Lock()
		delete(h.drafts, sessionEmail(c))
		h.mu.Unlock()
	}
	respondResult(c, res)
}
