package sales

import (
	"errors"
	"strconv"
	"strings"

	"mago-agent/internal/models"
)

var (
	ErrUnknownProduct  = errors.New("Selecione um produto válido.")
	ErrInvalidQuantity = errors.New("A quantidade deve ser de pelo menos 1.")
)

// Builder assembles a sale from the loaded product catalog, one line per
// product. It is purely in-memory: nothing touches the network until the
// finished item list is handed to the Repository.
type Builder struct {
	catalog map[int]models.Product
	items   []models.SaleItem
}

// NewBuilder starts an empty draft over the given catalog snapshot.
func NewBuilder(products []models.Product) *Builder {
	catalog := make(map[int]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return &Builder{catalog: catalog}
}

// Load replaces the current lines with an existing sale's items (edit mode).
func (b *Builder) Load(items []models.SaleItem) {
	b.items = make([]models.SaleItem, len(items))
	copy(b.items, items)
}

// Add puts quantity units of the product on the draft. Adding a product that
// already has a line merges into it: the quantity grows and the line total
// is recomputed against the unchanged price snapshot. A new line captures
// the catalog's current name and price.
func (b *Builder) Add(productID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	product, ok := b.catalog[productID]
	if !ok {
		return ErrUnknownProduct
	}

	for i := range b.items {
		if b.items[i].ProdutoID == productID {
			b.items[i].Quantidade += quantity
			b.items[i].TotalItem = float64(b.items[i].Quantidade) * b.items[i].PrecoUnitario
			return nil
		}
	}

	b.items = append(b.items, models.SaleItem{
		ProdutoID:     product.ID,
		NomeProduto:   product.Nome,
		Quantidade:    quantity,
		PrecoUnitario: product.Preco,
		TotalItem:     float64(quantity) * product.Preco,
	})
	return nil
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (b *Builder) Remove(productID int) {
	kept := b.items[:0]
	for _, item := range b.items {
		if item.ProdutoID != productID {
			kept = append(kept, item)
		}
	}
	b.items = kept
}

// Items returns a copy of the current lines in insertion order.
func (b *Builder) Items() []models.SaleItem {
	out := make([]models.SaleItem, len(b.items))
	copy(out, b.items)
	return out
}

// Total is always derived from the lines, never stored, so it cannot drift
// from its inputs.
func (b *Builder) Total() float64 {
	var total float64
	for _, item := range b.items {
		total += item.TotalItem
	}
	return total
}

// Empty reports whether the draft has no lines yet.
func (b *Builder) Empty() bool { return len(b.items) == 0 }

// ParseQuantity turns raw quantity input into a usable count: numbers are
// floored, strings parsed, anything non-numeric becomes 1, and the result
// is clamped to a minimum of 1.
func ParseQuantity(raw any) int {
	quantity := 1
	switch v := raw.(type) {
	case float64:
		quantity = int(v)
	case int:
		quantity = v
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			quantity = parsed
		}
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}
