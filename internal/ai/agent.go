package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mago-agent/internal/catalog"
	"mago-agent/internal/reports"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Agent answers natural-language questions about the store by calling the
// same data paths the dashboards use: the product catalog and the report
// aggregator. It only reads; every mutation stays behind the regular CRUD
// endpoints.
type Agent struct {
	catalog *catalog.Repository
	reports *reports.Aggregator
}

func NewAgent(cat *catalog.Repository, agg *reports.Aggregator) *Agent {
	return &Agent{catalog: cat, reports: agg}
}

// Run sends the user's question to Gemini together with the data tools and
// resolves at most one round of tool calls.
func (a *Agent) Run(ctx context.Context, userMessage, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the MagoImports store assistant.

RULES:
1. STOCK/PRICE: If the user asks for the PRICE, STOCK or DETAILS of a product,
   call 'check_inventory' and read the answer from the JSON. Do NOT say you
   cannot get it.
2. RESTOCK: If the user asks what is running low or what to reorder, use
   'check_low_stock'.
3. SALES: If the user asks for sales or revenue figures, use
   'get_sales_report' with a YYYY-MM-DD date range.
4. Answer in the user's language.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full product list. Use this to find ANY product details like ID, Name, Price or Stock.",
				},
				{
					Name:        "check_low_stock",
					Description: "List the products whose stock fell below the restock threshold.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get sales count and revenue for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}
	// Safety-blocked prompts come back with no candidates at all.
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("the model returned no answer for this question")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return a.executeCheckInventory(ctx, session)
			case "check_low_stock":
				return a.executeCheckLowStock(ctx, session)
			case "get_sales_report":
				return a.executeSalesReport(ctx, session, funcCall)
			}
		}
	}

	return printResponse(resp), nil
}

func (a *Agent) executeCheckInventory(ctx context.Context, session *genai.ChatSession) (string, error) {
	products, err := a.catalog.List(ctx)
	if err != nil {
		products = a.catalog.Cached()
	}

	type simpleProduct struct {
		ID    int     `json:"id"`
		Name  string  `json:"name"`
		Stock int     `json:"stock"`
		Price float64 `json:"price"`
	}
	simpleList := make([]simpleProduct, 0, len(products))
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{
			ID:    p.ID,
			Name:  p.Nome,
			Stock: p.Estoque,
			Price: p.Preco,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func (a *Agent) executeCheckLowStock(ctx context.Context, session *genai.ChatSession) (string, error) {
	report := a.reports.LowStock(ctx)

	response := map[string]interface{}{"status": "report unavailable"}
	if report != nil {
		jsonBytes, _ := json.Marshal(report)
		response = map[string]interface{}{"low_stock": string(jsonBytes)}
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_low_stock",
		Response: response,
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func (a *Agent) executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) (string, error) {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	if _, err := time.Parse("2006-01-02", startStr); err != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}
	if _, err := time.Parse("2006-01-02", endStr); err != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}

	report := a.reports.SalesByPeriod(ctx, startStr, endStr)

	response := map[string]interface{}{"status": "report unavailable"}
	if report != nil {
		response = map[string]interface{}{
			"revenue":     report.ValorTotalArrecadado,
			"sales_count": report.TotalVendas,
		}
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "get_sales_report",
		Response: response,
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
