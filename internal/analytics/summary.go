package analytics

import "github.com/shopspring/decimal"

type PersonnelSummary struct {
	Count        int             `json:"count"`
	TotalVisits  int             `json:"totalVisits"`
	TotalItems   int             `json:"totalItems"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

func SummarizePersonnel(rows []PersonnelRow) PersonnelSummary {
	sum := PersonnelSummary{Count: len(rows), TotalRevenue: decimal.Zero}
	for _, r := range rows {
		sum.TotalVisits += r.VisitCount
		sum.TotalItems += r.ItemCount
		sum.TotalRevenue = sum.TotalRevenue.Add(r.Revenue)
	}
	return sum
}

type VisitSummary struct {
	Count             int             `json:"count"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalPersonnelFee decimal.Decimal `json:"totalPersonnelFee"`
	NetRevenue        decimal.Decimal `json:"netRevenue"`
	AverageRevenue    decimal.Decimal `json:"averageRevenue"`
}

func SummarizeVisits(rows []VisitRow) VisitSummary {
	sum := VisitSummary{
		Count:             len(rows),
		TotalRevenue:      decimal.Zero,
		TotalPersonnelFee: decimal.Zero,
		NetRevenue:        decimal.Zero,
		AverageRevenue:    decimal.Zero,
	}
	for _, r := range rows {
		sum.TotalRevenue = sum.TotalRevenue.Add(r.TotalRevenue)
		sum.TotalPersonnelFee = sum.TotalPersonnelFee.Add(r.TotalPersonnelFee)
		sum.NetRevenue = sum.NetRevenue.Add(r.NetRevenue)
	}
	if len(rows) > 0 {
		sum.AverageRevenue = sum.TotalRevenue.Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
	}
	return sum
}

type InventorySummary struct {
	Count         int             `json:"count"`
	TotalUsage    int             `json:"totalUsage"`
	LowStockCount int             `json:"lowStockCount"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	StockValue    decimal.Decimal `json:"stockValue"` // remaining units at unit price
}

func SummarizeInventory(rows []InventoryRow) InventorySummary {
	sum := InventorySummary{Count: len(rows), TotalRevenue: decimal.Zero, StockValue: decimal.Zero}
	for _, r := range rows {
		sum.TotalUsage += r.Usage
		if r.IsLowStock {
			sum.LowStockCount++
		}
		sum.TotalRevenue = sum.TotalRevenue.Add(r.Revenue)
		sum.StockValue = sum.StockValue.Add(r.Item.Price.Mul(decimal.NewFromInt(int64(r.Remaining))))
	}
	return sum
}
