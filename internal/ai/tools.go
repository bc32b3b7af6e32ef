package ai

import (
	"fmt"
	"time"

	"go-clinic-panel/internal/analytics"
	"go-clinic-panel/internal/models"
)

// topRows caps how many table rows go back to the model.
const topRows = 10

// CallTool runs one tool by name with model-supplied args and returns a JSON-friendly result.
func CallTool(r Reports, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "personnel_report":
		dr, err := dateRangeArg(args)
		if err != nil {
			return nil, err
		}
		rep := r.PersonnelReport(analytics.PersonnelFilter{SearchQuery: stringArg(args, "search"), DateRange: dr})
		rows := make([]map[string]any, 0, min(len(rep.Rows), topRows))
		for _, row := range rep.Rows[:min(len(rep.Rows), topRows)] {
			rows = append(rows, map[string]any{
				"name":    row.Personnel.Name,
				"visits":  row.VisitCount,
				"items":   row.ItemCount,
				"revenue": row.Revenue.StringFixed(2),
			})
		}
		return map[string]any{
			"personnel":     rows,
			"total_revenue": rep.Summary.TotalRevenue.StringFixed(2),
			"total_visits":  rep.Summary.TotalVisits,
		}, nil

	case "visit_report":
		dr, err := dateRangeArg(args)
		if err != nil {
			return nil, err
		}
		f := analytics.VisitFilter{DateRange: dr, PaymentType: models.PaymentType(stringArg(args, "payment_type"))}
		if f.PaymentType != "" && !f.PaymentType.Valid() {
			return nil, fmt.Errorf("unknown payment type %q", f.PaymentType)
		}
		if id, ok := args["personnel_id"].(float64); ok {
			f.PersonnelID = int(id)
		}
		sum := r.VisitReport(f).Summary
		return map[string]any{
			"visits":              sum.Count,
			"total_revenue":       sum.TotalRevenue.StringFixed(2),
			"total_personnel_fee": sum.TotalPersonnelFee.StringFixed(2),
			"net_revenue":         sum.NetRevenue.StringFixed(2),
			"average_revenue":     sum.AverageRevenue.StringFixed(2),
		}, nil

	case "inventory_report":
		lowOnly, _ := args["low_stock_only"].(bool)
		rep := r.InventoryReport(analytics.InventoryFilter{SearchQuery: stringArg(args, "search"), LowStockOnly: lowOnly})
		rows := make([]map[string]any, 0, min(len(rep.Rows), topRows))
		for _, row := range rep.Rows[:min(len(rep.Rows), topRows)] {
			rows = append(rows, map[string]any{
				"name":          row.Item.Name,
				"usage":         row.Usage,
				"remaining":     row.Remaining,
				"remaining_pct": fmt.Sprintf("%.1f", row.RemainingPercentage),
				"low_stock":     row.IsLowStock,
			})
		}
		return map[string]any{
			"items":           rows,
			"low_stock_count": rep.Summary.LowStockCount,
		}, nil
	}
	return nil, fmt.Errorf("unknown tool %q", name)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func dateRangeArg(args map[string]any) (analytics.DateRange, error) {
	startStr, endStr := stringArg(args, "start_date"), stringArg(args, "end_date")
	if startStr == "" || endStr == "" {
		return analytics.DateRange{}, nil
	}
	start, err1 := time.ParseInLocation("2006-01-02", startStr, time.Local)
	end, err2 := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err1 != nil || err2 != nil {
		return analytics.DateRange{}, fmt.Errorf("dates must be in YYYY-MM-DD format")
	}
	return analytics.DateRange{From: &start, To: &end}, nil
}
