package models

// Product - one catalog entry, as the rest of the app works with it.
// The backend stores 'imagens' as a JSON-encoded string; by the time a
// Product leaves the catalog package it is always a materialized list.
type Product struct {
	ID            int      `json:"id"`
	Nome          string   `json:"nome"`
	Descricao     string   `json:"descricao,omitempty"`
	Preco         float64  `json:"preco"`
	Estoque       int      `json:"quantidade_em_estoque"`
	EstoqueMinimo int      `json:"estoque_minimo"`
	Imagens       []string `json:"imagens"`
	Ativo         bool     `json:"ativo"`
}

// SaleItem - one line inside a sale. Name and unit price are snapshots
// taken when the product was added; they do not follow later catalog edits.
type SaleItem struct {
	ProdutoID     int     `json:"produtoId"`
	NomeProduto   string  `json:"nomeProduto"`
	Quantidade    int     `json:"quantidade"`
	PrecoUnitario float64 `json:"precoUnitario"`
	TotalItem     float64 `json:"totalItem"`
}

// Sale - the transaction header plus its deserialized item list.
type Sale struct {
	ID             int        `json:"id"`
	Data           string     `json:"data"`
	Cliente        string     `json:"cliente,omitempty"`
	Itens          []SaleItem `json:"itens"`
	ValorTotal     float64    `json:"valor_total"`
	FormaPagamento string     `json:"forma_pagamento"`
	StatusVenda    string     `json:"status_venda"`
}

// Sale statuses and payment methods accepted by the backend.
const (
	StatusPendente  = "Pendente"
	StatusConcluida = "Concluída"
	StatusCancelada = "Cancelada"

	PagamentoDinheiro = "Dinheiro"
	PagamentoCredito  = "Cartão de Crédito"
	PagamentoPix      = "Pix"
	PagamentoBoleto   = "Boleto"
)

// SaleStatuses lists every valid status_venda value.
var SaleStatuses = []string{StatusPendente, StatusConcluida, StatusCancelada}

// PaymentMethods lists every valid forma_pagamento value.
var PaymentMethods = []string{PagamentoDinheiro, PagamentoCredito, PagamentoPix, PagamentoBoleto}

// ValidStatus reports whether s is one of the accepted sale statuses.
func ValidStatus(s string) bool {
	for _, v := range SaleStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPayment reports whether p is one of the accepted payment methods.
func ValidPayment(p string) bool {
	for _, v := range PaymentMethods {
		if v == p {
			return true
		}
	}
	return false
}

// UserIdentity - a remembered account. Email is the unique key.
type UserIdentity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Result is the uniform outcome every repository operation hands to the
// handlers: a success flag plus a display-ready message. The UI never needs
// to distinguish a network failure from a validation failure.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Ok builds a successful Result.
func Ok(message string) Result { return Result{Success: true, Message: message} }

// Fail builds a failed Result.
func Fail(message string) Result { return Result{Success: false, Message: message} }
