package analytics

import (
	"errors"
	"strings"
	"sync"
	"time"

	"go-clinic-panel/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// DateRange bounds are calendar days; To covers its whole day.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Complete is true when both bounds are set; only then does the range filter.
func (r DateRange) Complete() bool {
	return r.From != nil && r.To != nil
}

// Contains reports whether t falls inside the range, both ends inclusive.
// An incomplete range contains everything.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Complete() {
		return true
	}
	if t.Before(*r.From) {
		return false
	}
	return !t.After(endOfDay(*r.To))
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// PersonnelFilter narrows the personnel table.
type PersonnelFilter struct {
	SearchQuery string           `json:"searchQuery"`
	DateRange   DateRange        `json:"dateRange"`
	ServiceID   int              `json:"serviceId" validate:"gte=0"`
	MinRevenue  *decimal.Decimal `json:"minRevenue,omitempty"`
	MaxRevenue  *decimal.Decimal `json:"maxRevenue,omitempty"`
	OnlyActive  bool             `json:"onlyActive"`
}

func (f PersonnelFilter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return checkRange(f.MinRevenue, f.MaxRevenue)
}

// ActiveCount counts fields that differ from the defaults.
func (f PersonnelFilter) ActiveCount() int {
	n := commonCount(f.SearchQuery, f.DateRange)
	if f.ServiceID != 0 {
		n++
	}
	if f.MinRevenue != nil {
		n++
	}
	if f.MaxRevenue != nil {
		n++
	}
	if f.OnlyActive {
		n++
	}
	return n
}

const (
	SortDate         = "date"
	SortRevenue      = "revenue"
	SortPersonnelFee = "personnel_fee"
	SortNetRevenue   = "net_revenue"
	SortUsage        = "usage"
	SortRemaining    = "remaining"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// VisitFilter narrows and orders the visits table.
type VisitFilter struct {
	SearchQuery string             `json:"searchQuery"`
	DateRange   DateRange          `json:"dateRange"`
	ServiceID   int                `json:"serviceId" validate:"gte=0"`
	PersonnelID int                `json:"personnelId" validate:"gte=0"`
	PaymentType models.PaymentType `json:"paymentType" validate:"omitempty,oneof=credit debit cash card_to_card"`
	MinRevenue  *decimal.Decimal   `json:"minRevenue,omitempty"`
	MaxRevenue  *decimal.Decimal   `json:"maxRevenue,omitempty"`
	SortBy      string             `json:"sortBy" validate:"omitempty,oneof=date revenue personnel_fee net_revenue"`
	SortOrder   string             `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (f VisitFilter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return checkRange(f.MinRevenue, f.MaxRevenue)
}

// ActiveCount ignores sorting; sort keys are not filters.
func (f VisitFilter) ActiveCount() int {
	n := commonCount(f.SearchQuery, f.DateRange)
	if f.ServiceID != 0 {
		n++
	}
	if f.PersonnelID != 0 {
		n++
	}
	if f.PaymentType != "" {
		n++
	}
	if f.MinRevenue != nil {
		n++
	}
	if f.MaxRevenue != nil {
		n++
	}
	return n
}

// InventoryFilter narrows and orders the inventory table.
type InventoryFilter struct {
	SearchQuery  string    `json:"searchQuery"`
	DateRange    DateRange `json:"dateRange"`
	LowStockOnly bool      `json:"lowStockOnly"`
	MinUsage     *int      `json:"minUsage,omitempty" validate:"omitempty,gte=0"`
	SortBy       string    `json:"sortBy" validate:"omitempty,oneof=revenue usage remaining"`
	SortOrder    string    `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (f InventoryFilter) Validate() error {
	return validate.Struct(f)
}

func (f InventoryFilter) ActiveCount() int {
	n := commonCount(f.SearchQuery, f.DateRange)
	if f.LowStockOnly {
		n++
	}
	if f.MinUsage != nil {
		n++
	}
	return n
}

func commonCount(search string, r DateRange) int {
	n := 0
	if strings.TrimSpace(search) != "" {
		n++
	}
	if r.Complete() {
		n++
	}
	return n
}

func checkRange(lo, hi *decimal.Decimal) error {
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return errors.New("minRevenue must not exceed maxRevenue")
	}
	return nil
}

// matchesQuery is a case-insensitive substring match against any of the fields.
// An empty query matches everything.
func matchesQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func inRange(v decimal.Decimal, lo, hi *decimal.Decimal) bool {
	if lo != nil && v.LessThan(*lo) {
		return false
	}
	if hi != nil && v.GreaterThan(*hi) {
		return false
	}
	return true
}

type Tab string

const (
	TabPersonnel Tab = "personnel"
	TabInventory Tab = "inventory"
	TabVisits    Tab = "visits"
)

var ErrUnknownTab = errors.New("unknown analytics tab")

// FilterState holds one filter per tab. Switching tabs only changes which filter is
// active; the others are kept as they were.
type FilterState struct {
	mu        sync.RWMutex
	active    Tab
	personnel PersonnelFilter
	inventory InventoryFilter
	visits    VisitFilter
	onChange  func(tab Tab, count int)
}

func NewFilterState() *FilterState {
	return &FilterState{
		active: TabPersonnel,
		visits: VisitFilter{SortBy: SortDate, SortOrder: OrderDesc},
	}
}

// OnChange registers fn to receive the recomputed badge count after every change.
func (s *FilterState) OnChange(fn func(tab Tab, count int)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *FilterState) Active() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *FilterState) SetActive(tab Tab) error {
	switch tab {
	case TabPersonnel, TabInventory, TabVisits:
	default:
		return ErrUnknownTab
	}
	s.update(func() { s.active = tab })
	return nil
}

func (s *FilterState) Personnel() PersonnelFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.personnel
}

func (s *FilterState) Inventory() InventoryFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory
}

func (s *FilterState) Visits() VisitFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visits
}

func (s *FilterState) SetPersonnel(f PersonnelFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.update(func() { s.personnel = f })
	return nil
}

func (s *FilterState) SetInventory(f InventoryFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.update(func() { s.inventory = f })
	return nil
}

func (s *FilterState) SetVisits(f VisitFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.update(func() { s.visits = f })
	return nil
}

// ActiveFilterCount is the badge for the active tab only.
func (s *FilterState) ActiveFilterCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

func (s *FilterState) countLocked() int {
	switch s.active {
	case TabInventory:
		return s.inventory.ActiveCount()
	case TabVisits:
		return s.visits.ActiveCount()
	default:
		return s.personnel.ActiveCount()
	}
}

func (s *FilterState) update(apply func()) {
	s.mu.Lock()
	apply()
	tab, count, fn := s.active, s.countLocked(), s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(tab, count)
	}
}
