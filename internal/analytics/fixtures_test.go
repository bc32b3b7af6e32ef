package analytics

import (
	"time"

	"go-clinic-panel/internal/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(i int) *int { return &i }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pay(id int, amount string, t models.PaymentType, personel ...int) models.Payment {
	return models.Payment{ID: id, Amount: dec(amount), Type: t, PersonelID: personel, Paid: true}
}

var (
	drRahimi = models.Personnel{ID: 1, Name: "Dr. Rahimi", Precent: dec("50")}
	nurseAra = models.Personnel{ID: 2, Name: "Ara", Precent: dec("10")}
	idleSina = models.Personnel{ID: 3, Name: "Sina", Precent: dec("30")}

	botox   = models.Service{ID: 10, Name: "Botox", Personel: []models.Personnel{drRahimi}}
	peeling = models.Service{ID: 11, Name: "Peeling", Personel: []models.Personnel{drRahimi, nurseAra}}
	laser   = models.Service{ID: 12, Name: "Laser", Personel: []models.Personnel{idleSina}}

	gloves = models.Item{ID: 100, Name: "Gloves", Price: dec("2"), Count: 10, Limit: intPtr(20)}
	serum  = models.Item{ID: 101, Name: "Serum", Price: dec("15"), Count: 0}
	gauze  = models.Item{ID: 102, Name: "Gauze", Price: dec("1"), Count: 100}
)

// sampleVisits: visit 1 has two operations by Dr. Rahimi, visit 2 one operation by
// Dr. Rahimi and Ara.
func sampleVisits() []models.Visit {
	return []models.Visit{
		{
			ID:     1,
			Client: models.Client{ID: 1, Name: "Sara Karimi"},
			Operations: []models.Operation{
				{
					ID:         1,
					Datetime:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
					Services:   []models.Service{botox},
					Items:      []models.VisitItem{{ID: 1, Item: gloves, Count: intPtr(4)}},
					Payments:   []models.Payment{pay(1, "50", models.PaymentCash, 1), pay(2, "30", models.PaymentCardToCard, 1)},
					ExtraPrice: dec("10"),
					Discount:   dec("5"),
				},
				{
					ID:       2,
					Datetime: time.Date(2024, 3, 8, 11, 0, 0, 0, time.UTC),
					Services: []models.Service{botox},
					Items:    []models.VisitItem{{ID: 2, Item: gloves}},
					Payments: []models.Payment{pay(3, "20", models.PaymentCash, 1)},
				},
			},
		},
		{
			ID:     2,
			Client: models.Client{ID: 2, Name: "Omid Tehrani"},
			Operations: []models.Operation{
				{
					ID:       3,
					Datetime: time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC),
					Services: []models.Service{peeling},
					Items:    []models.VisitItem{{ID: 3, Item: gloves, Count: intPtr(4)}, {ID: 4, Item: gauze, Count: intPtr(5)}},
					Payments: []models.Payment{pay(4, "200", models.PaymentCredit, 2)},
				},
			},
		},
	}
}
