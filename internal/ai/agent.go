package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"goldland-pos/internal/database"
	"goldland-pos/internal/models"
	"goldland-pos/internal/services"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

// RunAgent answers a natural-language question about the shop by
// letting the model call read/write tools over stock, sales and rates.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant for a jewelry shop POS.

	RULES:
	1. STOCK: If the user asks about an item's stock, weight, purity or price,
	   call 'check_stock' and read the JSON to answer. Do NOT say you cannot
	   check stock. Weights are in grams.
	2. SALES: If the user asks for sales or revenue figures, use 'get_sales_report'.
	3. RATES: For today's gold rate use 'get_gold_rate'. If the user tells you a
	   new rate for a purity, call 'update_gold_rate' with it.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_stock",
					Description: "Get the full active item list with stock quantity, weight in grams, purity and price.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue and bill count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "get_gold_rate",
					Description: "Get the current gold rate per gram for a purity (default 22K).",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"purity": {Type: genai.TypeString, Description: "Purity like 22K, 24K, 916"},
						},
					},
				},
				{
					Name:        "update_gold_rate",
					Description: "Record today's gold rate per gram for a purity.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"purity":        {Type: genai.TypeString, Description: "Purity like 22K, 24K, 916"},
							"rate_per_gram": {Type: genai.TypeNumber, Description: "New rate per gram"},
						},
						Required: []string{"purity", "rate_per_gram"},
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

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_stock":
				return executeCheckStock(ctx, session)
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			case "get_gold_rate":
				return executeGetGoldRate(ctx, session, funcCall), nil
			case "update_gold_rate":
				return executeUpdateGoldRate(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckStock(ctx context.Context, session *genai.ChatSession) (string, error) {
	var items []models.Item
	database.DB.Where("is_active = ?", true).Find(&items)

	type stockRow struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Material string `json:"material"`
		Purity   string `json:"purity"`
		Stock    int    `json:"stock"`
		WeightGm string `json:"weight_gm"`
		Price    string `json:"price"`
	}
	var rows []stockRow
	for _, item := range items {
		rows = append(rows, stockRow{
			ID:       item.ID,
			Name:     item.Name,
			Material: item.Material,
			Purity:   item.Purity,
			Stock:    item.StockQuantity,
			WeightGm: item.WeightInGm.String(),
			Price:    item.Price.String(),
		})
	}

	jsonBytes, _ := json.Marshal(rows)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_stock",
		Response: map[string]interface{}{"stock": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	totals, err := database.GetBillTotals(database.DB, models.BillTypeSales, start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     totals.TotalRevenue.String(),
			"outstanding": totals.TotalOutstanding.String(),
			"bill_count":  totals.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func executeGetGoldRate(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	purity, _ := funcCall.Args["purity"].(string)
	if purity == "" {
		purity = "22K"
	}

	rate, err := services.CurrentGoldRate(database.DB, purity, time.Time{})
	if err != nil {
		return "Error fetching the gold rate."
	}

	response := map[string]interface{}{"purity": purity, "found": rate != nil}
	if rate != nil {
		response["rate_per_gram"] = rate.RatePerGram.String()
		response["making_charges"] = rate.MakingCharges.String()
		response["rate_date"] = rate.RateDate.Format("2006-01-02")
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "get_gold_rate",
		Response: response,
	})
	return printResponse(finalResp)
}

func executeUpdateGoldRate(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	purity, _ := args["purity"].(string)
	rateFloat, _ := args["rate_per_gram"].(float64)

	rate, err := services.UpsertGoldRate(database.DB, services.UpsertGoldRateInput{
		Purity:      purity,
		RatePerGram: decimal.NewFromFloat(rateFloat),
		Notes:       "Entered via assistant",
	})

	status := "updated"
	if err != nil {
		status = "failed: " + err.Error()
	}

	response := map[string]interface{}{"status": status}
	if rate != nil {
		response["rate_per_gram"] = rate.RatePerGram.String()
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_gold_rate",
		Response: response,
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
