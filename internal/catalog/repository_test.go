package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mago-agent/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImagens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty string", raw: "", want: []string{}},
		{name: "json list", raw: `["a.png","b.png"]`, want: []string{"a.png", "b.png"}},
		{name: "entries are trimmed", raw: `[" a.png ","b.png"]`, want: []string{"a.png", "b.png"}},
		{name: "empty entries dropped", raw: `["a.png","","  "]`, want: []string{"a.png"}},
		{name: "bare url becomes single entry", raw: "https://cdn/x.png", want: []string{"https://cdn/x.png"}},
		{name: "malformed json becomes single entry", raw: `["a.png"`, want: []string{`["a.png"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeImagens(tt.raw))
		})
	}
}

func TestEncodeImagens_RoundTrip(t *testing.T) {
	list := []string{"https://cdn/a.png", "data:image/png;base64,xyz"}
	assert.Equal(t, list, DecodeImagens(EncodeImagens(list)))

	// Empty and whitespace entries never reach the wire.
	assert.Equal(t, `["a.png"]`, EncodeImagens([]string{"a.png", "", "  "}))
	assert.Equal(t, `[]`, EncodeImagens(nil))
}

func TestList_NormalizesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"nome":"Caneca","preco":20,"quantidade_em_estoque":3,"imagens":"[\"a.png\",\"\"]","ativo":1},
			{"id":2,"nome":"Capa","preco":15,"quantidade_em_estoque":0,"imagens":null,"descricao":"capa de celular","ativo":0}
		]`))
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, []string{"a.png"}, products[0].Imagens)
	assert.True(t, products[0].Ativo)

	assert.Equal(t, []string{}, products[1].Imagens)
	assert.Equal(t, "capa de celular", products[1].Descricao)
	assert.False(t, products[1].Ativo)
}

func TestSave_CreateRefreshesAndReports(t *testing.T) {
	var created productRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":7}`))
		case http.MethodGet:
			w.Write([]byte(`[{"id":7,"nome":"Caneca","preco":20,"quantidade_em_estoque":5,"imagens":"[\"a.png\"]","ativo":1}]`))
		}
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	res := repo.Save(context.Background(), ProductForm{
		Nome:    "Caneca",
		Preco:   20,
		Estoque: 5,
		Imagens: []string{"a.png", ""},
		Ativo:   true,
	}, nil)

	require.True(t, res.Success)
	assert.Equal(t, "Produto cadastrado com sucesso!", res.Message)
	require.NotNil(t, created.Imagens)
	assert.Equal(t, `["a.png"]`, *created.Imagens)

	// The list refresh after save populated the cache.
	cached := repo.Cached()
	require.Len(t, cached, 1)
	assert.Equal(t, "Caneca", cached[0].Nome)
}

func TestSave_UpdateUsesPutAndDistinctMessage(t *testing.T) {
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
	id := 12
	res := repo.Save(context.Background(), ProductForm{Nome: "Capa", Preco: 1}, &id)

	require.True(t, res.Success)
	assert.Equal(t, "Produto atualizado com sucesso!", res.Message)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/products/12", gotPath)
}

func TestSave_ValidationNeverHitsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))

	res := repo.Save(context.Background(), ProductForm{Nome: "  "}, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "O nome do produto é obrigatório.", res.Message)

	res = repo.Save(context.Background(), ProductForm{Nome: "Caneca", Preco: -1}, nil)
	assert.False(t, res.Success)
}

func TestSave_ServerErrorKeepsLocalState(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":1,"nome":"Caneca","preco":20,"quantidade_em_estoque":3,"imagens":"[]","ativo":1}]`))
			return
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"produto duplicado"}`))
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	_, err := repo.List(context.Background())
	require.NoError(t, err)

	res := repo.Save(context.Background(), ProductForm{Nome: "Caneca"}, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "produto duplicado", res.Message)
	assert.Len(t, repo.Cached(), 1)
}

func TestDelete_RemovesLocallyWithoutRefetch(t *testing.T) {
	gets := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			w.Write([]byte(`[
				{"id":1,"nome":"Caneca","preco":20,"quantidade_em_estoque":3,"imagens":"[]","ativo":1},
				{"id":2,"nome":"Capa","preco":15,"quantidade_em_estoque":1,"imagens":"[]","ativo":1}
			]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	_, err := repo.List(context.Background())
	require.NoError(t, err)

	res := repo.Delete(context.Background(), 1)
	require.True(t, res.Success)
	assert.Equal(t, "Produto excluído com sucesso!", res.Message)

	cached := repo.Cached()
	require.Len(t, cached, 1)
	assert.Equal(t, 2, cached[0].ID)
	assert.Equal(t, 1, gets, "delete must not trigger a refetch")

	// Deleting an id that is not in the local list is a local no-op.
	res = repo.Delete(context.Background(), 99)
	require.True(t, res.Success)
	assert.Len(t, repo.Cached(), 1)
}

func TestDelete_FailureLeavesListUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":1,"nome":"Caneca","preco":20,"quantidade_em_estoque":3,"imagens":"[]","ativo":1}]`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"produto vinculado a vendas"}`))
	}))
	defer srv.Close()

	repo := NewRepository(gateway.New(srv.URL))
	_, err := repo.List(context.Background())
	require.NoError(t, err)

	res := repo.Delete(context.Background(), 1)
	assert.False(t, res.Success)
	assert.Equal(t, "produto vinculado a vendas", res.Message)
	assert.Len(t, repo.Cached(), 1)
}
