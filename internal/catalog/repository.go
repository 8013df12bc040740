package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"mago-agent/internal/gateway"
	"mago-agent/internal/models"
)

// productRecord is the wire shape of a product. The backend keeps 'imagens'
// as a JSON-encoded string and 'ativo' as 0/1; both are normalized before a
// product leaves this package.
type productRecord struct {
	ID            int     `json:"id,omitempty"`
	Nome          string  `json:"nome"`
	Descricao     *string `json:"descricao"`
	Preco         float64 `json:"preco"`
	Estoque       int     `json:"quantidade_em_estoque"`
	EstoqueMinimo int     `json:"estoque_minimo"`
	Imagens       *string `json:"imagens"`
	Ativo         int     `json:"ativo"`
}

// ProductForm carries the mutable fields of a create/update call.
type ProductForm struct {
	Nome          string   `json:"nome"`
	Preco         float64  `json:"preco"`
	Estoque       int      `json:"quantidade_em_estoque"`
	EstoqueMinimo int      `json:"estoque_minimo"`
	Descricao     string   `json:"descricao"`
	Imagens       []string `json:"imagens"`
	Ativo         bool     `json:"ativo"`
}

// Repository owns the in-memory product list and every operation that
// mutates it. All network failures come back as a failed Result with a
// display-ready message; the list is only touched on success.
type Repository struct {
	gw *gateway.Client

	mu       sync.Mutex
	products []models.Product
}

func NewRepository(gw *gateway.Client) *Repository {
	return &Repository{gw: gw}
}

// List fetches all products and replaces the in-memory list.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var records []productRecord
	if err := r.gw.GetJSON(ctx, "/products", &records); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toModel())
	}

	r.mu.Lock()
	r.products = products
	r.mu.Unlock()

	return r.Cached(), nil
}

// Cached returns a copy of the last fetched list without hitting the network.
func (r *Repository) Cached() []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Save creates the product when id is nil, updates it otherwise. On success
// the whole list is refreshed (simplicity over optimistic patching).
func (r *Repository) Save(ctx context.Context, form ProductForm, id *int) models.Result {
	if msg := form.validate(); msg != "" {
		return models.Fail(msg)
	}

	record := form.toRecord()

	method, path := http.MethodPost, "/products"
	if id != nil {
		method, path = http.MethodPut, "/products/"+strconv.Itoa(*id)
	}

	if err := r.gw.Send(ctx, method, path, record, nil); err != nil {
		return models.Fail(gateway.AsError(err).Message)
	}

	if _, err := r.List(ctx); err != nil {
		// The save itself succeeded; a failed refresh only leaves the
		// cached list stale until the next fetch.
		log.Printf("catalog: refresh after save failed: %v", err)
	}

	if id != nil {
		return models.Ok("Produto atualizado com sucesso!")
	}
	return models.Ok("Produto cadastrado com sucesso!")
}

// Delete removes the product on the backend (204 expected) and drops the
// matching entry from the in-memory list. No refetch.
func (r *Repository) Delete(ctx context.Context, id int) models.Result {
	if err := r.gw.Delete(ctx, "/products/"+strconv.Itoa(id)); err != nil {
		return models.Fail(gateway.AsError(err).Message)
	}

	r.mu.Lock()
	kept := r.products[:0]
	for _, p := range r.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.products = kept
	r.mu.Unlock()

	return models.Ok("Produto excluído com sucesso!")
}

func (f ProductForm) validate() string {
	if strings.TrimSpace(f.Nome) == "" {
		return "O nome do produto é obrigatório."
	}
	if f.Preco < 0 {
		return "O preço não pode ser negativo."
	}
	if f.Estoque < 0 {
		return "A quantidade em estoque não pode ser negativa."
	}
	if f.EstoqueMinimo < 0 {
		return "O estoque mínimo não pode ser negativo."
	}
	return ""
}

func (f ProductForm) toRecord() productRecord {
	imagens := EncodeImagens(f.Imagens)
	rec := productRecord{
		Nome:          strings.TrimSpace(f.Nome),
		Preco:         f.Preco,
		Estoque:       f.Estoque,
		EstoqueMinimo: f.EstoqueMinimo,
		Imagens:       &imagens,
	}
	if f.Descricao != "" {
		rec.Descricao = &f.Descricao
	}
	if f.Ativo {
		rec.Ativo = 1
	}
	return rec
}

func (rec productRecord) toModel() models.Product {
	p := models.Product{
		ID:            rec.ID,
		Nome:          rec.Nome,
		Preco:         rec.Preco,
		Estoque:       rec.Estoque,
		EstoqueMinimo: rec.EstoqueMinimo,
		Ativo:         rec.Ativo != 0,
	}
	if rec.Descricao != nil {
		p.Descricao = *rec.Descricao
	}
	if rec.Imagens != nil {
		p.Imagens = DecodeImagens(*rec.Imagens)
	} else {
		p.Imagens = []string{}
	}
	return p
}

// DecodeImagens turns the serialized wire value into an ordered list.
// A value that fails the structured decode is treated as a single bare URL.
// The returned list never contains empty-string entries.
func DecodeImagens(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{raw}
	}

	out := make([]string, 0, len(list))
	for _, entry := range list {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// EncodeImagens serializes the in-memory list back to the wire format,
// dropping empty entries first.
func EncodeImagens(list []string) string {
	clean := make([]string, 0, len(list))
	for _, entry := range list {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	encoded, _ := json.Marshal(clean)
	return string(encoded)
}
