// Package analytics derives the dashboard tables from the cached backend lists:
// per-personnel totals, per-visit revenue and fees, and inventory usage.
// Everything here is a pure function of its inputs.
package analytics

import (
	"slices"

	"go-clinic-panel/internal/models"

	"github.com/shopspring/decimal"
)

// PersonnelStats is what one person accumulated across visits.
type PersonnelStats struct {
	VisitCount int                `json:"visitCount"`
	ItemCount  int                `json:"itemCount"`
	Revenue    decimal.Decimal    `json:"revenue"`
	Visits     []models.Visit     `json:"visits"`
	VisitItems []models.VisitItem `json:"visitItems"`
	Payments   []models.Payment   `json:"payments"`

	seenVisits map[int]bool
}

func newPersonnelStats() *PersonnelStats {
	return &PersonnelStats{
		Revenue:    decimal.Zero,
		Visits:     []models.Visit{},
		VisitItems: []models.VisitItem{},
		Payments:   []models.Payment{},
		seenVisits: map[int]bool{},
	}
}

// PersonnelMetrics walks visit -> operation -> service -> personnel and accumulates,
// per personnel id:
//   - each visit once, however many of its operations involve the person
//   - every item used in an operation the person worked on, undivided
//   - the amounts of payments on those operations whose personel_id lists the person
//
// Personnel come from the services as embedded in the visit, the same ones the visit
// table reads. Only operations inside within count.
func PersonnelMetrics(visits []models.Visit, within DateRange) map[int]*PersonnelStats {
	stats := map[int]*PersonnelStats{}
	for _, v := range visits {
		for _, op := range v.Operations {
			if !within.Contains(op.Datetime) {
				continue
			}
			for _, p := range operationPersonnel(op) {
				acc, ok := stats[p.ID]
				if !ok {
					acc = newPersonnelStats()
					stats[p.ID] = acc
				}
				if !acc.seenVisits[v.ID] {
					acc.seenVisits[v.ID] = true
					acc.VisitCount++
					acc.Visits = append(acc.Visits, v)
				}
				for _, vi := range op.Items {
					acc.ItemCount += vi.Qty()
					acc.VisitItems = append(acc.VisitItems, vi)
				}
				for _, pay := range op.Payments {
					if pay.PaidTo(p.ID) {
						acc.Revenue = acc.Revenue.Add(pay.Amount)
						acc.Payments = append(acc.Payments, pay)
					}
				}
			}
		}
	}
	return stats
}

// operationPersonnel is everyone performing any service in op, each once.
func operationPersonnel(op models.Operation) []models.Personnel {
	seen := map[int]bool{}
	var out []models.Personnel
	for _, s := range op.Services {
		for _, p := range s.Personel {
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// PersonnelRow is one line of the personnel table.
type PersonnelRow struct {
	Personnel models.Personnel `json:"personnel"`
	PersonnelStats
}

// PersonnelRows filters personnel, joins in their metrics (zero when they have no
// visits) and orders by revenue, highest first.
func PersonnelRows(personnel []models.Personnel, visits []models.Visit, services []models.Service, f PersonnelFilter) []PersonnelRow {
	stats := PersonnelMetrics(visits, f.DateRange)
	serviceNames := servicesByPersonnel(services)

	rows := make([]PersonnelRow, 0, len(personnel))
	for _, p := range personnel {
		if !matchesQuery(f.SearchQuery, append([]string{p.Name, p.Description}, serviceNames[p.ID]...)...) {
			continue
		}
		if f.ServiceID != 0 && !performs(services, f.ServiceID, p.ID) {
			continue
		}

		row := PersonnelRow{Personnel: p}
		if s, ok := stats[p.ID]; ok {
			row.PersonnelStats = *s
		} else {
			row.PersonnelStats = *newPersonnelStats()
		}
		row.seenVisits = nil

		if !inRange(row.Revenue, f.MinRevenue, f.MaxRevenue) {
			continue
		}
		if f.OnlyActive && row.VisitCount == 0 {
			continue
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b PersonnelRow) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return rows
}

func servicesByPersonnel(services []models.Service) map[int][]string {
	out := map[int][]string{}
	for _, s := range services {
		for _, p := range s.Personel {
			out[p.ID] = append(out[p.ID], s.Name)
		}
	}
	return out
}

func performs(services []models.Service, serviceID, personnelID int) bool {
	for _, s := range services {
		if s.ID != serviceID {
			continue
		}
		for _, p := range s.Personel {
			if p.ID == personnelID {
				return true
			}
		}
	}
	return false
}
