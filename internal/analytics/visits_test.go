package analytics

import (
	"testing"
	"time"

	"go-clinic-panel/internal/models"
)

func TestVisitMetrics_TwoOperationScenario(t *testing.T) {
	row := VisitMetrics(sampleVisits()[0])

	if !row.TotalRevenue.Equal(dec("105")) {
		t.Fatalf("expected total revenue 105, got %s", row.TotalRevenue)
	}
	if len(row.Personnel) != 1 {
		t.Fatalf("expected the same person counted once, got %d", len(row.Personnel))
	}
	if !row.TotalPersonnelFee.Equal(dec("52.5")) {
		t.Fatalf("expected fee 52.5, got %s", row.TotalPersonnelFee)
	}
	if !row.NetRevenue.Equal(dec("52.5")) {
		t.Fatalf("expected net 52.5, got %s", row.NetRevenue)
	}
	if row.StartTime == nil || !row.StartTime.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start at first operation, got %v", row.StartTime)
	}
}

func TestVisitMetrics_FeeAndNetInvariant(t *testing.T) {
	for _, v := range sampleVisits() {
		row := VisitMetrics(v)
		fee := dec("0")
		for _, p := range row.Personnel {
			fee = fee.Add(row.TotalRevenue.Mul(p.Precent).Div(dec("100")))
		}
		if !fee.Equal(row.TotalPersonnelFee) {
			t.Fatalf("visit %d: fee %s != sum of shares %s", v.ID, row.TotalPersonnelFee, fee)
		}
		if !row.NetRevenue.Equal(row.TotalRevenue.Sub(row.TotalPersonnelFee)) {
			t.Fatalf("visit %d: net revenue mismatch", v.ID)
		}
	}

	second := VisitMetrics(sampleVisits()[1])
	if !second.TotalPersonnelFee.Equal(dec("120")) || !second.NetRevenue.Equal(dec("80")) {
		t.Fatalf("expected fee 120 / net 80, got %s / %s", second.TotalPersonnelFee, second.NetRevenue)
	}
}

func TestVisitMetrics_NoOperations(t *testing.T) {
	row := VisitMetrics(models.Visit{ID: 3})
	if row.StartTime != nil || !row.TotalRevenue.IsZero() || !row.NetRevenue.IsZero() {
		t.Fatalf("expected empty metrics, got %+v", row)
	}
}

func TestVisitRows_Search(t *testing.T) {
	cases := []struct {
		query    string
		expected []int
	}{
		{"", []int{2, 1}},
		{"sara", []int{1}},
		{"PEEL", []int{2}},
		{"ara", []int{2, 1}}, // "Ara" personnel and "Sara" client
		{"zzz", nil},
	}
	for _, tc := range cases {
		rows := VisitRows(sampleVisits(), VisitFilter{SearchQuery: tc.query})
		if len(rows) != len(tc.expected) {
			t.Fatalf("query %q expected %v, got %d rows", tc.query, tc.expected, len(rows))
		}
		for i, id := range tc.expected {
			if rows[i].Visit.ID != id {
				t.Fatalf("query %q expected %v at %d, got visit %d", tc.query, tc.expected, i, rows[i].Visit.ID)
			}
		}
	}
}

func TestVisitRows_DateRangeInclusiveToEndOfDay(t *testing.T) {
	from, to := day(2024, 5, 1), day(2024, 5, 10)
	atEnd := time.Date(2024, 5, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	visits := []models.Visit{
		{ID: 1, Operations: []models.Operation{{Datetime: atEnd}}},
		{ID: 2, Operations: []models.Operation{{Datetime: atEnd.Add(time.Minute)}}},
		{ID: 3, Operations: []models.Operation{{Datetime: from}}},
		{ID: 4, Operations: []models.Operation{{Datetime: from.Add(-time.Millisecond)}}},
		{ID: 5},
	}

	rows := VisitRows(visits, VisitFilter{DateRange: DateRange{From: &from, To: &to}, SortOrder: OrderAsc})
	if len(rows) != 2 || rows[0].Visit.ID != 3 || rows[1].Visit.ID != 1 {
		ids := []int{}
		for _, r := range rows {
			ids = append(ids, r.Visit.ID)
		}
		t.Fatalf("expected visits [3 1], got %v", ids)
	}
}

func TestVisitRows_ExactMatchFilters(t *testing.T) {
	visits := sampleVisits()

	if rows := VisitRows(visits, VisitFilter{ServiceID: botox.ID}); len(rows) != 1 || rows[0].Visit.ID != 1 {
		t.Fatalf("service filter: expected visit 1, got %d rows", len(rows))
	}
	if rows := VisitRows(visits, VisitFilter{PersonnelID: nurseAra.ID}); len(rows) != 1 || rows[0].Visit.ID != 2 {
		t.Fatalf("personnel filter: expected visit 2, got %d rows", len(rows))
	}
	if rows := VisitRows(visits, VisitFilter{PersonnelID: drRahimi.ID}); len(rows) != 2 {
		t.Fatalf("personnel filter: expected both visits for Rahimi, got %d", len(rows))
	}
	if rows := VisitRows(visits, VisitFilter{PaymentType: models.PaymentCardToCard}); len(rows) != 1 || rows[0].Visit.ID != 1 {
		t.Fatalf("payment type filter: expected visit 1, got %d rows", len(rows))
	}
	if rows := VisitRows(visits, VisitFilter{PaymentType: models.PaymentDebit}); len(rows) != 0 {
		t.Fatalf("payment type filter: expected no debit visits, got %d", len(rows))
	}
	if rows := VisitRows(visits, VisitFilter{MinRevenue: decPtr("106")}); len(rows) != 1 || rows[0].Visit.ID != 2 {
		t.Fatalf("min revenue: expected visit 2, got %d rows", len(rows))
	}
	if rows := VisitRows(visits, VisitFilter{MaxRevenue: decPtr("105")}); len(rows) != 1 || rows[0].Visit.ID != 1 {
		t.Fatalf("max revenue inclusive: expected visit 1, got %d rows", len(rows))
	}
}

func TestSortVisits_ToggleReverses(t *testing.T) {
	visits := append(sampleVisits(), models.Visit{
		ID: 3,
		Operations: []models.Operation{{
			Datetime: day(2024, 2, 1),
			Payments: []models.Payment{pay(9, "150", models.PaymentCash)},
		}},
	})

	for _, key := range []string{SortDate, SortRevenue, SortPersonnelFee, SortNetRevenue} {
		asc := VisitRows(visits, VisitFilter{SortBy: key, SortOrder: OrderAsc})
		desc := VisitRows(visits, VisitFilter{SortBy: key, SortOrder: OrderDesc})
		if len(asc) != len(desc) {
			t.Fatalf("%s: length mismatch", key)
		}
		for i := range asc {
			if asc[i].Visit.ID != desc[len(desc)-1-i].Visit.ID {
				t.Fatalf("%s: desc is not the reverse of asc", key)
			}
		}
	}

	byRevenue := VisitRows(visits, VisitFilter{SortBy: SortRevenue, SortOrder: OrderAsc})
	if byRevenue[0].Visit.ID != 1 || byRevenue[1].Visit.ID != 3 || byRevenue[2].Visit.ID != 2 {
		t.Fatalf("expected revenue ascending 105, 150, 200")
	}
}

func TestSummarizeVisits(t *testing.T) {
	sum := SummarizeVisits(VisitRows(sampleVisits(), VisitFilter{}))
	if sum.Count != 2 || !sum.TotalRevenue.Equal(dec("305")) || !sum.TotalPersonnelFee.Equal(dec("172.5")) ||
		!sum.NetRevenue.Equal(dec("132.5")) || !sum.AverageRevenue.Equal(dec("152.5")) {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
