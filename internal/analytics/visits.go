package analytics

import (
	"slices"
	"time"

	"go-clinic-panel/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VisitRow is one line of the visits table.
type VisitRow struct {
	Visit             models.Visit       `json:"visit"`
	TotalRevenue      decimal.Decimal    `json:"totalRevenue"`
	Personnel         []models.Personnel `json:"personnel"`
	TotalPersonnelFee decimal.Decimal    `json:"totalPersonnelFee"`
	NetRevenue        decimal.Decimal    `json:"netRevenue"`
	StartTime         *time.Time         `json:"startTime"`
}

// VisitMetrics computes a visit's revenue and personnel fee. Each distinct person on any
// service of any operation takes precent% of the visit's whole revenue.
func VisitMetrics(v models.Visit) VisitRow {
	row := VisitRow{
		Visit:             v,
		TotalRevenue:      decimal.Zero,
		TotalPersonnelFee: decimal.Zero,
		Personnel:         []models.Personnel{},
	}

	seen := map[int]bool{}
	for _, op := range v.Operations {
		for _, pay := range op.Payments {
			row.TotalRevenue = row.TotalRevenue.Add(pay.Amount)
		}
		row.TotalRevenue = row.TotalRevenue.Add(op.ExtraPrice).Sub(op.Discount)

		for _, s := range op.Services {
			for _, p := range s.Personel {
				if !seen[p.ID] {
					seen[p.ID] = true
					row.Personnel = append(row.Personnel, p)
				}
			}
		}
	}

	for _, p := range row.Personnel {
		row.TotalPersonnelFee = row.TotalPersonnelFee.Add(row.TotalRevenue.Mul(p.Precent).Div(hundred))
	}
	row.NetRevenue = row.TotalRevenue.Sub(row.TotalPersonnelFee)

	if len(v.Operations) > 0 {
		start := v.Operations[0].Datetime
		row.StartTime = &start
	}
	return row
}

// VisitRows computes every visit's metrics, then narrows in a fixed order: search,
// date range, service, personnel, payment type, revenue bounds. The result is sorted
// by the filter's sort key.
func VisitRows(visits []models.Visit, f VisitFilter) []VisitRow {
	rows := make([]VisitRow, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, VisitMetrics(v))
	}

	rows = keep(rows, func(r VisitRow) bool { return matchesQuery(f.SearchQuery, visitSearchFields(r)...) })
	if f.DateRange.Complete() {
		rows = keep(rows, func(r VisitRow) bool { return r.StartTime != nil && f.DateRange.Contains(*r.StartTime) })
	}
	if f.ServiceID != 0 {
		rows = keep(rows, func(r VisitRow) bool { return hasService(r.Visit, f.ServiceID) })
	}
	if f.PersonnelID != 0 {
		rows = keep(rows, func(r VisitRow) bool { return hasPersonnel(r, f.PersonnelID) })
	}
	if f.PaymentType != "" {
		rows = keep(rows, func(r VisitRow) bool { return hasPaymentType(r.Visit, f.PaymentType) })
	}
	if f.MinRevenue != nil || f.MaxRevenue != nil {
		rows = keep(rows, func(r VisitRow) bool { return inRange(r.TotalRevenue, f.MinRevenue, f.MaxRevenue) })
	}

	SortVisits(rows, f.SortBy, f.SortOrder)
	return rows
}

// SortVisits orders rows in place by one key. Ties keep their input order.
func SortVisits(rows []VisitRow, sortBy, order string) {
	var cmp func(a, b VisitRow) int
	switch sortBy {
	case SortRevenue:
		cmp = func(a, b VisitRow) int { return a.TotalRevenue.Cmp(b.TotalRevenue) }
	case SortPersonnelFee:
		cmp = func(a, b VisitRow) int { return a.TotalPersonnelFee.Cmp(b.TotalPersonnelFee) }
	case SortNetRevenue:
		cmp = func(a, b VisitRow) int { return a.NetRevenue.Cmp(b.NetRevenue) }
	default:
		cmp = func(a, b VisitRow) int { return startOf(a).Compare(startOf(b)) }
	}
	if order == OrderAsc {
		slices.SortStableFunc(rows, cmp)
		return
	}
	slices.SortStableFunc(rows, func(a, b VisitRow) int { return cmp(b, a) })
}

func startOf(r VisitRow) time.Time {
	if r.StartTime == nil {
		return time.Time{}
	}
	return *r.StartTime
}

func keep(rows []VisitRow, pred func(VisitRow) bool) []VisitRow {
	out := rows[:0]
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func visitSearchFields(r VisitRow) []string {
	fields := []string{r.Visit.Client.Name}
	for _, op := range r.Visit.Operations {
		for _, s := range op.Services {
			fields = append(fields, s.Name)
		}
	}
	for _, p := range r.Personnel {
		fields = append(fields, p.Name)
	}
	return fields
}

func hasService(v models.Visit, serviceID int) bool {
	for _, op := range v.Operations {
		for _, s := range op.Services {
			if s.ID == serviceID {
				return true
			}
		}
	}
	return false
}

func hasPersonnel(r VisitRow, personnelID int) bool {
	for _, p := range r.Personnel {
		if p.ID == personnelID {
			return true
		}
	}
	return false
}

func hasPaymentType(v models.Visit, t models.PaymentType) bool {
	for _, op := range v.Operations {
		for _, pay := range op.Payments {
			if pay.Type == t {
				return true
			}
		}
	}
	return false
}
