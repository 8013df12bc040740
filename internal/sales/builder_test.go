package sales

import (
	"testing"

	"mago-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Nome: "Caneca", Preco: 20.00, Estoque: 10},
		{ID: 2, Nome: "Capa", Preco: 15.50, Estoque: 4},
	}
}

// sumOfLines recomputes what the total must always equal.
func sumOfLines(items []models.SaleItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantidade) * item.PrecoUnitario
	}
	return total
}

func TestBuilder_ExampleScenario(t *testing.T) {
	b := NewBuilder(testCatalog())

	require.NoError(t, b.Add(1, 2))
	assert.Equal(t, 40.00, b.Total())

	require.NoError(t, b.Add(1, 3))
	items := b.Items()
	require.Len(t, items, 1, "duplicate add must merge, never create a second line")
	assert.Equal(t, 5, items[0].Quantidade)
	assert.Equal(t, 100.00, b.Total())

	b.Remove(1)
	assert.True(t, b.Empty())
	assert.Equal(t, 0.00, b.Total())
}

func TestBuilder_TotalAlwaysMatchesLines(t *testing.T) {
	b := NewBuilder(testCatalog())

	ops := []func(){
		func() { _ = b.Add(1, 2) },
		func() { _ = b.Add(2, 1) },
		func() { _ = b.Add(1, 4) },
		func() { b.Remove(2) },
		func() { _ = b.Add(2, 3) },
		func() { b.Remove(99) },
	}
	for _, op := range ops {
		op()
		assert.Equal(t, sumOfLines(b.Items()), b.Total())
	}
}

func TestBuilder_SnapshotsNameAndPrice(t *testing.T) {
	products := testCatalog()
	b := NewBuilder(products)
	require.NoError(t, b.Add(1, 1))

	// A later catalog rename or price change must not touch existing lines.
	products[0].Nome = "Caneca Premium"
	products[0].Preco = 99.00

	items := b.Items()
	assert.Equal(t, "Caneca", items[0].NomeProduto)
	assert.Equal(t, 20.00, items[0].PrecoUnitario)
}

func TestBuilder_Validation(t *testing.T) {
	b := NewBuilder(testCatalog())

	assert.ErrorIs(t, b.Add(1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, b.Add(1, -3), ErrInvalidQuantity)
	assert.ErrorIs(t, b.Add(42, 1), ErrUnknownProduct)
	assert.True(t, b.Empty())
}

func TestBuilder_LoadForEdit(t *testing.T) {
	b := NewBuilder(testCatalog())
	b.Load([]models.SaleItem{
		{ProdutoID: 1, NomeProduto: "Caneca", Quantidade: 2, PrecoUnitario: 18.00, TotalItem: 36.00},
	})

	assert.Equal(t, 36.00, b.Total())

	// Merging into a loaded line keeps its snapshot price, not the catalog's.
	require.NoError(t, b.Add(1, 1))
	items := b.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantidade)
	assert.Equal(t, 54.00, items[0].TotalItem)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{name: "plain number", raw: float64(4), want: 4},
		{name: "int", raw: 2, want: 2},
		{name: "numeric string", raw: " 3 ", want: 3},
		{name: "non-numeric string", raw: "abc", want: 1},
		{name: "nil", raw: nil, want: 1},
		{name: "zero clamps to one", raw: float64(0), want: 1},
		{name: "negative clamps to one", raw: -5, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.raw))
		})
	}
}
