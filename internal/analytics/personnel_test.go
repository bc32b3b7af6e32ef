package analytics

import (
	"testing"

	"go-clinic-panel/internal/models"
)

func TestPersonnelMetrics_CountsVisitsOnceAndItemsUndivided(t *testing.T) {
	stats := PersonnelMetrics(sampleVisits(), DateRange{})

	rahimi := stats[drRahimi.ID]
	if rahimi == nil {
		t.Fatalf("expected stats for Dr. Rahimi")
	}
	if rahimi.VisitCount != 2 || len(rahimi.Visits) != 2 {
		t.Fatalf("expected 2 distinct visits, got %d (%d)", rahimi.VisitCount, len(rahimi.Visits))
	}
	if rahimi.ItemCount != 14 {
		t.Fatalf("expected 14 items (4+1+4+5), got %d", rahimi.ItemCount)
	}
	if !rahimi.Revenue.Equal(dec("100")) {
		t.Fatalf("expected revenue 100 from payments naming him, got %s", rahimi.Revenue)
	}

	ara := stats[nurseAra.ID]
	if ara.VisitCount != 1 || ara.ItemCount != 9 || !ara.Revenue.Equal(dec("200")) {
		t.Fatalf("unexpected stats for Ara: visits=%d items=%d revenue=%s", ara.VisitCount, ara.ItemCount, ara.Revenue)
	}
	if _, ok := stats[idleSina.ID]; ok {
		t.Fatalf("personnel without operations must not appear in metrics")
	}
}

func TestPersonnelMetrics_EmbeddedServicesOnly(t *testing.T) {
	bare := models.Service{ID: botox.ID, Name: "Botox"}
	visits := []models.Visit{{
		ID: 7,
		Operations: []models.Operation{{
			ID: 1, Datetime: day(2024, 1, 1), Services: []models.Service{bare},
			Payments: []models.Payment{pay(1, "40", models.PaymentCash, drRahimi.ID)},
		}},
	}}

	// The services list knows who performs botox, but the visit embedded none.
	rows := PersonnelRows([]models.Personnel{drRahimi}, visits, []models.Service{botox}, PersonnelFilter{})
	if len(rows) != 1 || rows[0].VisitCount != 0 || !rows[0].Revenue.IsZero() {
		t.Fatalf("expected no credit without embedded personnel, got %+v", rows)
	}

	visit := VisitMetrics(visits[0])
	if len(visit.Personnel) != 0 || !visit.TotalPersonnelFee.IsZero() {
		t.Fatalf("visit table must agree with the personnel table, got %+v", visit)
	}
	if got := VisitRows(visits, VisitFilter{PersonnelID: drRahimi.ID}); len(got) != 0 {
		t.Fatalf("personnel filter must agree too, got %d rows", len(got))
	}
}

func TestPersonnelMetrics_DateRangeLimitsOperations(t *testing.T) {
	from, to := day(2024, 3, 1), day(2024, 3, 1)
	stats := PersonnelMetrics(sampleVisits(), DateRange{From: &from, To: &to})

	rahimi := stats[drRahimi.ID]
	if rahimi.VisitCount != 1 || rahimi.ItemCount != 4 || !rahimi.Revenue.Equal(dec("80")) {
		t.Fatalf("expected only the 1 March operation, got visits=%d items=%d revenue=%s",
			rahimi.VisitCount, rahimi.ItemCount, rahimi.Revenue)
	}
	if _, ok := stats[nurseAra.ID]; ok {
		t.Fatalf("Ara worked only in April")
	}
}

func TestPersonnelRows_JoinsZeroesAndSortsByRevenue(t *testing.T) {
	personnel := []models.Personnel{drRahimi, idleSina, nurseAra}
	services := []models.Service{botox, peeling, laser}

	rows := PersonnelRows(personnel, sampleVisits(), services, PersonnelFilter{})
	if len(rows) != 3 {
		t.Fatalf("expected all 3 personnel, got %d", len(rows))
	}
	order := []int{rows[0].Personnel.ID, rows[1].Personnel.ID, rows[2].Personnel.ID}
	if order[0] != nurseAra.ID || order[1] != drRahimi.ID || order[2] != idleSina.ID {
		t.Fatalf("expected revenue descending Ara, Rahimi, Sina; got %v", order)
	}
	if rows[2].VisitCount != 0 || !rows[2].Revenue.IsZero() || rows[2].Visits == nil {
		t.Fatalf("expected zeroed metrics for Sina, got %+v", rows[2].PersonnelStats)
	}
}

func TestPersonnelRows_Search(t *testing.T) {
	personnel := []models.Personnel{drRahimi, idleSina, nurseAra}
	services := []models.Service{botox, peeling, laser}

	cases := []struct {
		query    string
		expected int
	}{
		{"", 3},
		{"RAHIMI", 1},
		{"laser", 1},   // service Sina performs
		{"peeling", 2}, // Rahimi and Ara
		{"nobody-matches", 0},
	}
	for _, tc := range cases {
		rows := PersonnelRows(personnel, sampleVisits(), services, PersonnelFilter{SearchQuery: tc.query})
		if len(rows) != tc.expected {
			t.Fatalf("query %q expected %d rows, got %d", tc.query, tc.expected, len(rows))
		}
	}
}

func TestPersonnelRows_ServiceRevenueAndActiveFilters(t *testing.T) {
	personnel := []models.Personnel{drRahimi, idleSina, nurseAra}
	services := []models.Service{botox, peeling, laser}
	visits := sampleVisits()

	rows := PersonnelRows(personnel, visits, services, PersonnelFilter{ServiceID: peeling.ID})
	if len(rows) != 2 {
		t.Fatalf("expected 2 personnel performing peeling, got %d", len(rows))
	}

	rows = PersonnelRows(personnel, visits, services, PersonnelFilter{MinRevenue: decPtr("100"), MaxRevenue: decPtr("150")})
	if len(rows) != 1 || rows[0].Personnel.ID != drRahimi.ID {
		t.Fatalf("expected only Rahimi in [100,150], got %+v", rows)
	}

	rows = PersonnelRows(personnel, visits, services, PersonnelFilter{OnlyActive: true})
	if len(rows) != 2 {
		t.Fatalf("expected Sina dropped by onlyActive, got %d rows", len(rows))
	}
}

func TestSummarizePersonnel(t *testing.T) {
	rows := PersonnelRows([]models.Personnel{drRahimi, nurseAra}, sampleVisits(), nil, PersonnelFilter{})
	sum := SummarizePersonnel(rows)
	if sum.Count != 2 || sum.TotalVisits != 3 || sum.TotalItems != 23 || !sum.TotalRevenue.Equal(dec("300")) {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
