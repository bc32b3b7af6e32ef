package ai

import (
	"context"
	"fmt"
	"time"

	"go-clinic-panel/internal/analytics"
	"go-clinic-panel/internal/panel"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxToolRounds bounds how many times the model may call tools for one question.
const maxToolRounds = 4

// Reports is what the assistant can look at. *panel.Panel satisfies it.
type Reports interface {
	PersonnelReport(f analytics.PersonnelFilter) panel.PersonnelReport
	VisitReport(f analytics.VisitFilter) panel.VisitReport
	InventoryReport(f analytics.InventoryFilter) panel.InventoryReport
}

var tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "personnel_report",
				Description: "Per-personnel visit count, items used and attributed revenue, highest revenue first.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
						"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						"search":     {Type: genai.TypeString, Description: "Part of a personnel or service name"},
					},
				},
			},
			{
				Name:        "visit_report",
				Description: "Visit totals: revenue, personnel fees and net revenue for a date range.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start_date":   {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
						"end_date":     {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						"personnel_id": {Type: genai.TypeInteger, Description: "Only visits this person worked on"},
						"payment_type": {Type: genai.TypeString, Description: "credit, debit, cash or card_to_card"},
					},
				},
			},
			{
				Name:        "inventory_report",
				Description: "Item usage, remaining stock and low-stock flags.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"low_stock_only": {Type: genai.TypeBoolean, Description: "Only items below their stock limit"},
						"search":         {Type: genai.TypeString, Description: "Part of an item name"},
					},
				},
			},
		},
	},
}

// RunAgent answers one operator question, letting the model call the report tools.
func RunAgent(ctx context.Context, userMessage, apiKey string, reports Reports) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")
	model.Tools = tools

	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a clinic admin panel.

	RULES:
	1. Never guess numbers. Use personnel_report, visit_report or inventory_report and answer from their output.
	2. Money values are strings with full precision; round to two decimals when answering.
	3. Personnel revenue is what payments name that person; personnel fee is their share of visit revenue. Say which one you report.

	USER: %s`, today, userMessage)

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := CallTool(reports, call.Name, call.Args)
			if err != nil {
				result = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}
		if resp, err = session.SendMessage(ctx, parts...); err != nil {
			return "", err
		}
	}

	return printResponse(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I could not find an answer."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I could not find an answer."
}
