package reports

import (
	"context"
	"log"
	"net/url"

	"mago-agent/internal/gateway"

	"golang.org/x/sync/errgroup"
)

// Report payloads, typed to the backend's wire shapes.

type LowStockProduct struct {
	Nome    string  `json:"nome"`
	Estoque int     `json:"quantidade_em_estoque"`
	Preco   float64 `json:"preco"`
}

type LowStockReport struct {
	Threshold int               `json:"threshold"`
	Count     int               `json:"count"`
	Products  []LowStockProduct `json:"products"`
}

type StatusSummary struct {
	StatusVenda string  `json:"status_venda"`
	Count       int     `json:"count"`
	TotalValor  float64 `json:"total_valor"`
}

type Periodo struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type PeriodSale struct {
	ID             int     `json:"id"`
	Data           string  `json:"data"`
	Cliente        string  `json:"cliente"`
	ValorTotal     float64 `json:"valor_total"`
	FormaPagamento string  `json:"forma_pagamento"`
	StatusVenda    string  `json:"status_venda"`
}

type PeriodReport struct {
	Periodo              Periodo      `json:"periodo"`
	TotalVendas          int          `json:"total_vendas"`
	ValorTotalArrecadado float64      `json:"valor_total_arrecadado"`
	Vendas               []PeriodSale `json:"vendas"`
}

type InventoryItem struct {
	Nome          string  `json:"nome"`
	Estoque       int     `json:"quantidade_em_estoque"`
	EstoqueMinimo int     `json:"estoque_minimo"`
	Preco         float64 `json:"preco"`
}

type InventoryReport struct {
	TotalProdutos int             `json:"total_produtos"`
	ValorEstoque  float64         `json:"valor_total_estoque"`
	Produtos      []InventoryItem `json:"produtos"`
}

type ProcurementSuggestion struct {
	Nome               string `json:"nome"`
	Estoque            int    `json:"quantidade_em_estoque"`
	EstoqueMinimo      int    `json:"estoque_minimo"`
	QuantidadeSugerida int    `json:"quantidade_sugerida"`
}

type ProductPerformance struct {
	Nome              string  `json:"nome"`
	QuantidadeVendida int     `json:"quantidade_vendida"`
	Receita           float64 `json:"receita"`
}

type RankingEntry struct {
	Nome              string  `json:"nome"`
	QuantidadeVendida int     `json:"quantidade_vendida"`
	ValorTotal        float64 `json:"valor_total"`
}

// Aggregator fetches the backend's report datasets. Reports are
// supplementary views: every failure kind collapses to nil ("no data")
// and retry is the caller pressing the button again.
type Aggregator struct {
	gw *gateway.Client
}

func NewAggregator(gw *gateway.Client) *Aggregator {
	return &Aggregator{gw: gw}
}

// fetch decodes path into out, reporting success. Failures are logged and
// absorbed; callers only see the nil.
func (a *Aggregator) fetch(ctx context.Context, path string, out any) bool {
	if err := a.gw.GetJSON(ctx, path, out); err != nil {
		log.Printf("reports: %s unavailable: %v", path, err)
		return false
	}
	return true
}

func (a *Aggregator) LowStock(ctx context.Context) *LowStockReport {
	var report LowStockReport
	if !a.fetch(ctx, "/reports/products/low-stock", &report) {
		return nil
	}
	return &report
}

func (a *Aggregator) SalesByStatus(ctx context.Context) []StatusSummary {
	var summaries []StatusSummary
	if !a.fetch(ctx, "/reports/sales/by-status", &summaries) {
		return nil
	}
	return summaries
}

func (a *Aggregator) SalesByPeriod(ctx context.Context, startDate, endDate string) *PeriodReport {
	path := "/reports/sales/period?startDate=" + url.QueryEscape(startDate) +
		"&endDate=" + url.QueryEscape(endDate)
	var report PeriodReport
	if !a.fetch(ctx, path, &report) {
		return nil
	}
	return &report
}

func (a *Aggregator) FullInventory(ctx context.Context) *InventoryReport {
	var report InventoryReport
	if !a.fetch(ctx, "/reports/inventory/full", &report) {
		return nil
	}
	return &report
}

func (a *Aggregator) ProcurementSuggestions(ctx context.Context) []ProcurementSuggestion {
	var suggestions []ProcurementSuggestion
	if !a.fetch(ctx, "/reports/procurement/suggested", &suggestions) {
		return nil
	}
	return suggestions
}

func (a *Aggregator) ProductPerformance(ctx context.Context, startDate, endDate string) []ProductPerformance {
	path := "/reports/products/performance?startDate=" + url.QueryEscape(startDate) +
		"&endDate=" + url.QueryEscape(endDate)
	var entries []ProductPerformance
	if !a.fetch(ctx, path, &entries) {
		return nil
	}
	return entries
}

func (a *Aggregator) SalesRanking(ctx context.Context) []RankingEntry {
	var ranking []RankingEntry
	if !a.fetch(ctx, "/reports/sales/ranking", &ranking) {
		return nil
	}
	return ranking
}

// Overview is the combined dashboard view: status totals, inventory
// summary and procurement list. Nil fields mean "no data" for that slot.
type Overview struct {
	ByStatus    []StatusSummary         `json:"by_status"`
	TotalVendas int                     `json:"total_vendas"`
	TotalValor  float64                 `json:"total_valor"`
	Inventory   *InventoryReport        `json:"inventory"`
	Procurement []ProcurementSuggestion `json:"procurement"`
}

// FetchOverview issues the three report fetches concurrently and only
// returns once all of them have settled, successfully or as nil. The sums
// over the status rows are the only client-side aggregation.
func (a *Aggregator) FetchOverview(ctx context.Context) Overview {
	var overview Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview.ByStatus = a.SalesByStatus(ctx)
		return nil
	})
	g.Go(func() error {
		overview.Inventory = a.FullInventory(ctx)
		return nil
	})
	g.Go(func() error {
		overview.Procurement = a.ProcurementSuggestions(ctx)
		return nil
	})
	// The goroutines absorb their own failures, so Wait cannot error.
	_ = g.Wait()

	for _, row := range overview.ByStatus {
		overview.TotalVendas += row.Count
		overview.TotalValor += row.TotalValor
	}
	return overview
}
