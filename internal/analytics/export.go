package analytics

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportVisits writes the visits table as an xlsx workbook.
func ExportVisits(w io.Writer, rows []VisitRow) error {
	header := []any{"Visit", "Client", "Start", "Personnel", "Revenue", "Personnel Fee", "Net Revenue"}
	return writeSheet(w, "Visits", header, len(rows), func(i int) []any {
		r := rows[i]
		start := ""
		if r.StartTime != nil {
			start = r.StartTime.Format("2006-01-02 15:04")
		}
		names := ""
		for j, p := range r.Personnel {
			if j > 0 {
				names += ", "
			}
			names += p.Name
		}
		return []any{
			r.Visit.ID, r.Visit.Client.Name, start, names,
			r.TotalRevenue.InexactFloat64(), r.TotalPersonnelFee.InexactFloat64(), r.NetRevenue.InexactFloat64(),
		}
	})
}

// ExportInventory writes the inventory table as an xlsx workbook.
func ExportInventory(w io.Writer, rows []InventoryRow) error {
	header := []any{"Item", "Stock", "Usage", "Remaining", "Remaining %", "Revenue", "Low Stock"}
	return writeSheet(w, "Inventory", header, len(rows), func(i int) []any {
		r := rows[i]
		return []any{
			r.Item.Name, r.Item.Count, r.Usage, r.Remaining,
			r.RemainingPercentage, r.Revenue.InexactFloat64(), r.IsLowStock,
		}
	})
}

// ExportPersonnel writes the personnel table as an xlsx workbook.
func ExportPersonnel(w io.Writer, rows []PersonnelRow) error {
	header := []any{"Personnel", "Share %", "Visits", "Items", "Revenue"}
	return writeSheet(w, "Personnel", header, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.Personnel.Name, r.Personnel.Precent.InexactFloat64(), r.VisitCount, r.ItemCount, r.Revenue.InexactFloat64()}
	})
}

func writeSheet(w io.Writer, sheet string, header []any, n int, row func(i int) []any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}
