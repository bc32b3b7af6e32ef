package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - the operator logged into the panel
type User struct {
	ID          int          `json:"id"`
	Username    string       `json:"username"`
	IsAdmin     bool         `json:"is_admin"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission reports whether the user was granted p explicitly.
func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	for _, granted := range u.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// Client - the customer a visit belongs to
type Client struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	NationalCode string `json:"national_code"`
	Birthdate    string `json:"birthdate"`
	Gender       string `json:"gender"`
}

// Personnel - staff who perform services
type Personnel struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Precent       decimal.Decimal `json:"precent"`       // commission share, 0-100
	DoctorExpense decimal.Decimal `json:"doctorExpense"` // fixed expense
	Payments      []Payment       `json:"payments"`
}

// Service - something the business sells
type Service struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	PersonelFee  decimal.Decimal `json:"personel_fee"`
	FeeIsPercent bool            `json:"fee_is_percent"`
	Personel     []Personnel     `json:"personel"`
	Items        []ServiceItem   `json:"items"`
}

// ServiceItem - stock consumed every time a service is performed
type ServiceItem struct {
	Item  Item `json:"item"`
	Count int  `json:"count"`
}

// Item - the inventory
type Item struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Count int             `json:"count"`
	Limit *int            `json:"limit,omitempty"` // low-stock threshold in percent
}

// Visit - a client's engagement, one or more operations
type Visit struct {
	ID         int         `json:"id"`
	Client     Client      `json:"client"`
	Operations []Operation `json:"operations"`
}

// Operation - one dated encounter inside a visit
type Operation struct {
	ID         int             `json:"id"`
	Datetime   time.Time       `json:"datetime"`
	Services   []Service       `json:"services"`
	Items      []VisitItem     `json:"items"`
	Payments   []Payment       `json:"payments"`
	ExtraPrice decimal.Decimal `json:"extraPrice"`
	Discount   decimal.Decimal `json:"discount"`
}

// VisitItem - stock used during an operation
type VisitItem struct {
	ID    int  `json:"id"`
	Item  Item `json:"item"`
	Count *int `json:"count,omitempty"`
}

// Qty is the used count; a missing count means one unit.
func (vi VisitItem) Qty() int {
	if vi.Count == nil {
		return 1
	}
	return *vi.Count
}

// Payment - money collected on an operation or paid to personnel
type Payment struct {
	ID          int             `json:"id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Paid        bool            `json:"paid"`
	PersonelID  []int           `json:"personel_id"`
	Visit       *int            `json:"visit,omitempty"`
	Type        PaymentType     `json:"type"`
	Description string          `json:"description"`
}

// PaidTo reports whether personnelID is linked to this payment.
func (p Payment) PaidTo(personnelID int) bool {
	for _, id := range p.PersonelID {
		if id == personnelID {
			return true
		}
	}
	return false
}

type PaymentType string

const (
	PaymentCredit     PaymentType = "credit"
	PaymentDebit      PaymentType = "debit"
	PaymentCash       PaymentType = "cash"
	PaymentCardToCard PaymentType = "card_to_card"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCredit, PaymentDebit, PaymentCash, PaymentCardToCard:
		return true
	}
	return false
}
