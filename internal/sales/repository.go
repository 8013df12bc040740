package sales

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"mago-agent/internal/gateway"
	"mago-agent/internal/models"
)

// saleRecord is the wire shape: 'itens' travels as a JSON-encoded string.
type saleRecord struct {
	ID             int     `json:"id,omitempty"`
	Data           string  `json:"data"`
	Cliente        *string `json:"cliente"`
	Itens          string  `json:"itens"`
	ValorTotal     float64 `json:"valor_total"`
	FormaPagamento string  `json:"forma_pagamento"`
	StatusVenda    string  `json:"status_venda"`
}

// SaleForm carries the header fields of a save call. The item list and its
// total always come from the Builder, never from the form.
type SaleForm struct {
	Data           string `json:"data"`
	Cliente        string `json:"cliente"`
	FormaPagamento string `json:"forma_pagamento"`
	StatusVenda    string `json:"status_venda"`
}

// Repository owns the in-memory sale list, mirroring the catalog
// repository's List/Save/Delete shape.
type Repository struct {
	gw *gateway.Client

	mu    sync.Mutex
	sales []models.Sale
}

func NewRepository(gw *gateway.Client) *Repository {
	return &Repository{gw: gw}
}

// List fetches all sales, deserializing each record's itens string back
// into the in-memory item sequence.
func (r *Repository) List(ctx context.Context) ([]models.Sale, error) {
	var records []saleRecord
	if err := r.gw.GetJSON(ctx, "/sales", &records); err != nil {
		return nil, err
	}

	sales := make([]models.Sale, 0, len(records))
	for _, rec := range records {
		sales = append(sales, rec.toModel())
	}

	r.mu.Lock()
	r.sales = sales
	r.mu.Unlock()

	return r.Cached(), nil
}

// Cached returns a copy of the last fetched list.
func (r *Repository) Cached() []models.Sale {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Sale, len(r.sales))
	copy(out, r.sales)
	return out
}

// Save persists a sale built from items. The empty-list check runs before
// any network call, and valor_total is always the derived sum of the line
// totals so it can never disagree with the items.
func (r *Repository) Save(ctx context.Context, form SaleForm, items []models.SaleItem, id *int) models.Result {
	if len(items) == 0 {
		return models.Fail("A venda deve conter pelo menos um item.")
	}
	if form.Data == "" {
		return models.Fail("A data da venda é obrigatória.")
	}
	if !models.ValidPayment(form.FormaPagamento) {
		return models.Fail("Forma de pagamento inválida.")
	}
	if !models.ValidStatus(form.StatusVenda) {
		return models.Fail("Status de venda inválido.")
	}

	var total float64
	for _, item := range items {
		total += item.TotalItem
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return models.Fail("Erro ao preparar os itens da venda.")
	}

	record := saleRecord{
		Data:           form.Data,
		Itens:          string(encoded),
		ValorTotal:     total,
		FormaPagamento: form.FormaPagamento,
		StatusVenda:    form.StatusVenda,
	}
	if form.Cliente != "" {
		record.Cliente = &form.Cliente
	}

	method, path := http.MethodPost, "/sales"
	if id != nil {
		method, path = http.MethodPut, "/sales/"+strconv.Itoa(*id)
	}

	if err := r.gw.Send(ctx, method, path, record, nil); err != nil {
		return models.Fail(gateway.AsError(err).Message)
	}

	if _, err := r.List(ctx); err != nil {
		log.Printf("sales: refresh after save failed: %v", err)
	}

	if id != nil {
		return models.Ok("Venda atualizada com sucesso!")
	}
	return models.Ok("Venda cadastrada com sucesso!")
}

// Delete removes the sale on the backend (204 expected) and drops it from
// the in-memory list without a refetch.
func (r *Repository) Delete(ctx context.Context, id int) models.Result {
	if err := r.gw.Delete(ctx, "/sales/"+strconv.Itoa(id)); err != nil {
		return models.Fail(gateway.AsError(err).Message)
	}

	r.mu.Lock()
	kept := r.sales[:0]
	for _, s := range r.sales {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	r.sales = kept
	r.mu.Unlock()

	return models.Ok("Venda excluída com sucesso!")
}

func (rec saleRecord) toModel() models.Sale {
	s := models.Sale{
		ID:             rec.ID,
		Data:           rec.Data,
		ValorTotal:     rec.ValorTotal,
		FormaPagamento: rec.FormaPagamento,
		StatusVenda:    rec.StatusVenda,
		Itens:          []models.SaleItem{},
	}
	if rec.Cliente != nil {
		s.Cliente = *rec.Cliente
	}
	if rec.Itens != "" {
		var items []models.SaleItem
		if err := json.Unmarshal([]byte(rec.Itens), &items); err != nil {
			// A malformed itens field never fails the whole load; the sale
			// comes through with an empty item list. Flagged for review as
			// possible data loss on such records.
			log.Printf("sales: sale %d has malformed itens, using empty list: %v", rec.ID, err)
		} else {
			s.Itens = items
		}
	}
	return s
}
