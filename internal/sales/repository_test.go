package sales

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mago-agent/internal/gateway"
	"mago-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() SaleForm {
	return SaleForm{
		Data:           "2026-08-30",
		Cliente:        "Maria",
		FormaPagamento: models.PagamentoPix,
		StatusVenda:    models.StatusPendente,
	}
}

func TestSave_RejectsEmptyItemsBeforeNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty sale")
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	res := repo.Save(context.Background(), validForm(), nil, nil)

	assert.False(t, res.Success)
	assert.Equal(t, "A venda deve conter pelo menos um item.", res.Message)
}

func TestSave_SerializesItemsAndDerivesTotal(t *testing.T) {
	var got saleRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":3}`))
	}))
	defer srv.Close()

	items := []models.SaleItem{
		{ProdutoID: 1, NomeProduto: "Caneca", Quantidade: 2, PrecoUnitario: 20.00, TotalItem: 40.00},
		{ProdutoID: 2, NomeProduto: "Capa", Quantidade: 1, PrecoUnitario: 15.50, TotalItem: 15.50},
	}

	repo := NewRepository(gateway.New(srv.URL))
	res := repo.Save(context.Background(), validForm(), items, nil)

	require.True(t, res.Success)
	assert.Equal(t, "Venda cadastrada com sucesso!", res.Message)
	assert.Equal(t, 55.50, got.ValorTotal, "total must be the derived sum of line totals")
	require.NotNil(t, got.Cliente)
	assert.Equal(t, "Maria", *got.Cliente)

	// The itens field is a JSON-encoded string that round-trips to the list.
	var decoded []models.SaleItem
	require.NoError(t, json.Unmarshal([]byte(got.Itens), &decoded))
	assert.Equal(t, items, decoded)
}

func TestSave_ValidatesEnumerations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	items := []models.SaleItem{{ProdutoID: 1, Quantidade: 1, PrecoUnitario: 10, TotalItem: 10}}

	form := validForm()
	form.FormaPagamento = "Cheque"
	res := repo.Save(context.Background(), form, items, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Forma de pagamento inválida.", res.Message)

	form = validForm()
	form.StatusVenda = "Enviada"
	res = repo.Save(context.Background(), form, items, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Status de venda inválido.", res.Message)
}

func TestSave_UpdateUsesPut(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	items := []models.SaleItem{{ProdutoID: 1, Quantidade: 1, PrecoUnitario: 10, TotalItem: 10}}
	id := 9
	res := repo.Save(context.Background(), validForm(), items, &id)

	require.True(t, res.Success)
	assert.Equal(t, "Venda atualizada com sucesso!", res.Message)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/sales/9", gotPath)
}

func TestList_DeserializesItens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"data":"2026-08-30","cliente":"Maria","itens":"[{\"produtoId\":1,\"nomeProduto\":\"Caneca\",\"quantidade\":2,\"precoUnitario\":20,\"totalItem\":40}]","valor_total":40,"forma_pagamento":"Pix","status_venda":"Pendente"},
			{"id":2,"data":"2026-08-31","cliente":null,"itens":"not valid json","valor_total":10,"forma_pagamento":"Dinheiro","status_venda":"Concluída"}
		]`))
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	salesList, err := repo.List(context.Background())
	require.NoError(t, err, "a malformed itens field must not fail the whole load")
	require.Len(t, salesList, 2)

	require.Len(t, salesList[0].Itens, 1)
	assert.Equal(t, "Caneca", salesList[0].Itens[0].NomeProduto)
	assert.Equal(t, "Maria", salesList[0].Cliente)

	assert.Empty(t, salesList[1].Itens)
	assert.Equal(t, "", salesList[1].Cliente)
}

func TestDelete_RemovesLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[
				{"id":1,"data":"2026-08-30","cliente":null,"itens":"[]","valor_total":40,"forma_pagamento":"Pix","status_venda":"Pendente"},
				{"id":2,"data":"2026-08-31","cliente":null,"itens":"[]","valor_total":10,"forma_pagamento":"Dinheiro","status_venda":"Concluída"}
			]`))
		case http.MethodDelete:
			assert.Equal(t, "/sales/2", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	_, err := repo.List(context.Background())
	require.NoError(t, err)

	res := repo.Delete(context.Background(), 2)
	require.True(t, res.Success)

	cached := repo.Cached()
	require.Len(t, cached, 1)
	assert.Equal(t, 1, cached[0].ID)
}

func TestSummarize(t *testing.T) {
	salesList := []models.Sale{
		{ID: 1, ValorTotal: 100, StatusVenda: models.StatusConcluida},
		{ID: 2, ValorTotal: 50, StatusVenda: models.StatusConcluida},
		{ID: 3, ValorTotal: 70, StatusVenda: models.StatusPendente},
		{ID: 4, ValorTotal: 30, StatusVenda: models.StatusCancelada},
	}

	summary := Summarize(salesList)
	assert.Equal(t, 150.00, summary.Receitas)
	assert.Equal(t, 1500.00, summary.Despesas)
	assert.Equal(t, -1350.00, summary.Faturamento)
	require.Len(t, summary.VendasPendentes, 1)
	assert.Equal(t, 3, summary.VendasPendentes[0].ID)
}
