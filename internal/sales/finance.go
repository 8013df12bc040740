package sales

import "mago-agent/internal/models"

// fixedExpenses stands in until the backend exposes an expenses endpoint.
// TODO: replace with a real expenses fetch once /expenses exists.
const fixedExpenses = 1500.00

// FinanceSummary is the cash overview shown on the finance dashboard.
type FinanceSummary struct {
	Receitas        float64       `json:"receitas"`
	Despesas        float64       `json:"despesas"`
	Faturamento     float64       `json:"faturamento"`
	VendasPendentes []models.Sale `json:"vendas_pendentes"`
}

// Summarize computes revenue from completed sales only and lists the
// pending ones for follow-up.
func Summarize(sales []models.Sale) FinanceSummary {
	summary := FinanceSummary{
		Despesas:        fixedExpenses,
		VendasPendentes: []models.Sale{},
	}
	for _, s := range sales {
		switch s.StatusVenda {
		case models.StatusConcluida:
			summary.Receitas += s.ValorTotal
		case models.StatusPendente:
			summary.VendasPendentes = append(summary.VendasPendentes, s)
		}
	}
	summary.Faturamento = summary.Receitas - summary.Despesas
	return summary
}
