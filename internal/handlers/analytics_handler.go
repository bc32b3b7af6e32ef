package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"go-clinic-panel/internal/analytics"
	"go-clinic-panel/internal/config"
	"go-clinic-panel/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	xlsxType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type DateRangeRequest struct {
	StartDate string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r DateRangeRequest) toRange() analytics.DateRange {
	var out analytics.DateRange
	if t, err := time.ParseInLocation(dateLayout, r.StartDate, time.Local); err == nil {
		out.From = &t
	}
	if t, err := time.ParseInLocation(dateLayout, r.EndDate, time.Local); err == nil {
		out.To = &t
	}
	return out
}

type PersonnelFilterRequest struct {
	SearchQuery string `json:"searchQuery"`
	DateRangeRequest
	ServiceID  int              `json:"serviceId"`
	MinRevenue *decimal.Decimal `json:"minRevenue"`
	MaxRevenue *decimal.Decimal `json:"maxRevenue"`
	OnlyActive bool             `json:"onlyActive"`
}

type VisitFilterRequest struct {
	SearchQuery string `json:"searchQuery"`
	DateRangeRequest
	ServiceID   int              `json:"serviceId"`
	PersonnelID int              `json:"personnelId"`
	PaymentType string           `json:"paymentType"`
	MinRevenue  *decimal.Decimal `json:"minRevenue"`
	MaxRevenue  *decimal.Decimal `json:"maxRevenue"`
	SortBy      string           `json:"sortBy"`
	SortOrder   string           `json:"sortOrder"`
}

type InventoryFilterRequest struct {
	SearchQuery string `json:"searchQuery"`
	DateRangeRequest
	LowStockOnly bool   `json:"lowStockOnly"`
	MinUsage     *int   `json:"minUsage"`
	SortBy       string `json:"sortBy"`
	SortOrder    string `json:"sortOrder"`
}

type TabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// refreshIfAsked refetches every list when the caller passes ?refresh=1.
func refreshIfAsked(c *gin.Context) bool {
	if c.Query("refresh") != "1" {
		return true
	}
	if err := app.RefreshAll(c.Request.Context()); err != nil {
		abortWithBackendError(c, "handlers", "refreshIfAsked", err)
		return false
	}
	return true
}

func GetPersonnelReport(c *gin.Context) {
	if !refreshIfAsked(c) {
		return
	}
	c.JSON(http.StatusOK, app.PersonnelReport(app.Filters.Personnel()))
}

func GetVisitReport(c *gin.Context) {
	if !refreshIfAsked(c) {
		return
	}
	c.JSON(http.StatusOK, app.VisitReport(app.Filters.Visits()))
}

func GetInventoryReport(c *gin.Context) {
	if !refreshIfAsked(c) {
		return
	}
	c.JSON(http.StatusOK, app.InventoryReport(app.Filters.Inventory()))
}

func GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, filterState())
}

func filterState() gin.H {
	f := app.Filters
	return gin.H{
		"activeTab":         f.Active(),
		"personnel":         f.Personnel(),
		"visits":            f.Visits(),
		"inventory":         f.Inventory(),
		"activeFilterCount": f.ActiveFilterCount(),
	}
}

func SetActiveTab(c *gin.Context) {
	var req TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tab is required"})
		return
	}
	if err := app.Filters.SetActive(analytics.Tab(req.Tab)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, filterState())
}

// SetFilter replaces the filter of one tab. The body is the whole filter; omitted
// fields fall back to their defaults.
func SetFilter(c *gin.Context) {
	var err error
	switch analytics.Tab(c.Param("tab")) {
	case analytics.TabPersonnel:
		var req PersonnelFilterRequest
		if err = c.ShouldBindJSON(&req); err == nil {
			err = app.Filters.SetPersonnel(analytics.PersonnelFilter{
				SearchQuery: req.SearchQuery,
				DateRange:   req.toRange(),
				ServiceID:   req.ServiceID,
				MinRevenue:  req.MinRevenue,
				MaxRevenue:  req.MaxRevenue,
				OnlyActive:  req.OnlyActive,
			})
		}
	case analytics.TabVisits:
		var req VisitFilterRequest
		if err = c.ShouldBindJSON(&req); err == nil {
			err = app.Filters.SetVisits(analytics.VisitFilter{
				SearchQuery: req.SearchQuery,
				DateRange:   req.toRange(),
				ServiceID:   req.ServiceID,
				PersonnelID: req.PersonnelID,
				PaymentType: models.PaymentType(req.PaymentType),
				MinRevenue:  req.MinRevenue,
				MaxRevenue:  req.MaxRevenue,
				SortBy:      req.SortBy,
				SortOrder:   req.SortOrder,
			})
		}
	case analytics.TabInventory:
		var req InventoryFilterRequest
		if err = c.ShouldBindJSON(&req); err == nil {
			err = app.Filters.SetInventory(analytics.InventoryFilter{
				SearchQuery:  req.SearchQuery,
				DateRange:    req.toRange(),
				LowStockOnly: req.LowStockOnly,
				MinUsage:     req.MinUsage,
				SortBy:       req.SortBy,
				SortOrder:    req.SortOrder,
			})
		}
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": analytics.ErrUnknownTab.Error()})
		return
	}

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, filterState())
}

func ExportVisitReport(c *gin.Context) {
	rows := app.VisitReport(app.Filters.Visits()).Rows
	sendWorkbook(c, "visits", func(buf *bytes.Buffer) error { return analytics.ExportVisits(buf, rows) })
}

func ExportInventoryReport(c *gin.Context) {
	rows := app.InventoryReport(app.Filters.Inventory()).Rows
	sendWorkbook(c, "inventory", func(buf *bytes.Buffer) error { return analytics.ExportInventory(buf, rows) })
}

func ExportPersonnelReport(c *gin.Context) {
	rows := app.PersonnelReport(app.Filters.Personnel()).Rows
	sendWorkbook(c, "personnel", func(buf *bytes.Buffer) error { return analytics.ExportPersonnel(buf, rows) })
}

func sendWorkbook(c *gin.Context, name string, write func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		config.LogError(config.GetLogger(), "handlers", "sendWorkbook", name, nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxType, buf.Bytes())
}
