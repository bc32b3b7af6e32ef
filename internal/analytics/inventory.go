package analytics

import (
	"slices"

	"go-clinic-panel/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultLowStockLimit applies to items without their own limit, in percent.
const DefaultLowStockLimit = 20

// InventoryRow is one line of the inventory table. Remaining is a display value and
// is never written back to the item.
type InventoryRow struct {
	Item                models.Item     `json:"item"`
	Usage               int             `json:"usage"`
	Revenue             decimal.Decimal `json:"revenue"`
	Remaining           int             `json:"remaining"`
	RemainingPercentage float64         `json:"remainingPercentage"`
	IsLowStock          bool            `json:"isLowStock"`
}

// usageByItem sums visit-item counts per item id over operations inside within.
func usageByItem(visits []models.Visit, within DateRange) map[int]int {
	usage := map[int]int{}
	for _, v := range visits {
		for _, op := range v.Operations {
			if !within.Contains(op.Datetime) {
				continue
			}
			for _, vi := range op.Items {
				usage[vi.Item.ID] += vi.Qty()
			}
		}
	}
	return usage
}

// ItemMetrics derives usage, revenue and stock state for one item given its usage.
// Remaining is only meaningful when usage covers every visit.
func ItemMetrics(item models.Item, usage int) InventoryRow {
	row := InventoryRow{
		Item:    item,
		Usage:   usage,
		Revenue: item.Price.Mul(decimal.NewFromInt(int64(usage))),
	}
	row.Remaining = max(0, item.Count-usage)
	if item.Count != 0 {
		row.RemainingPercentage = float64(row.Remaining) / float64(item.Count) * 100
	}

	limit := DefaultLowStockLimit
	if item.Limit != nil {
		limit = *item.Limit
	}
	row.IsLowStock = row.RemainingPercentage < float64(limit)
	return row
}

// InventoryRows computes every item's metrics, filters them, and sorts. Without a sort
// key the order is revenue, highest first. Stock state always reflects every visit;
// the date range only narrows the usage and revenue columns.
func InventoryRows(items []models.Item, visits []models.Visit, f InventoryFilter) []InventoryRow {
	consumed := usageByItem(visits, DateRange{})
	usage := consumed
	if f.DateRange.Complete() {
		usage = usageByItem(visits, f.DateRange)
	}

	rows := make([]InventoryRow, 0, len(items))
	for _, it := range items {
		if !matchesQuery(f.SearchQuery, it.Name) {
			continue
		}
		row := ItemMetrics(it, consumed[it.ID])
		row.Usage = usage[it.ID]
		row.Revenue = it.Price.Mul(decimal.NewFromInt(int64(row.Usage)))
		if f.LowStockOnly && !row.IsLowStock {
			continue
		}
		if f.MinUsage != nil && row.Usage < *f.MinUsage {
			continue
		}
		rows = append(rows, row)
	}

	SortInventory(rows, f.SortBy, f.SortOrder)
	return rows
}

// SortInventory orders rows in place; order defaults to descending.
func SortInventory(rows []InventoryRow, sortBy, order string) {
	var cmp func(a, b InventoryRow) int
	switch sortBy {
	case SortUsage:
		cmp = func(a, b InventoryRow) int { return a.Usage - b.Usage }
	case SortRemaining:
		cmp = func(a, b InventoryRow) int {
			switch {
			case a.RemainingPercentage < b.RemainingPercentage:
				return -1
			case a.RemainingPercentage > b.RemainingPercentage:
				return 1
			}
			return 0
		}
	default:
		cmp = func(a, b InventoryRow) int { return a.Revenue.Cmp(b.Revenue) }
	}
	if order == OrderAsc {
		slices.SortStableFunc(rows, cmp)
		return
	}
	slices.SortStableFunc(rows, func(a, b InventoryRow) int { return cmp(b, a) })
}
