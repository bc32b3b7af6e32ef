package hooks

import (
	"net/url"

	"go-clinic-panel/internal/api"
	"go-clinic-panel/internal/models"
)

const paymentsField = "payments"

// PaymentRow is one payment in the personnel payments editor.
type PaymentRow struct {
	Key     models.PaymentKey `json:"key"`
	Payment models.Payment    `json:"payment"`
}

// PaymentEditor holds a personnel's payments while the personnel form is open. New rows
// get draft keys; nothing reaches the backend until the parent form is submitted.
type PaymentEditor struct {
	rows []PaymentRow
}

func NewPaymentEditor(existing []models.Payment) *PaymentEditor {
	e := &PaymentEditor{}
	for _, p := range existing {
		if p.ID > 0 {
			e.rows = append(e.rows, PaymentRow{Key: models.PersistedKey(p.ID), Payment: p})
		} else {
			e.Add(p)
		}
	}
	return e
}

// DecodePaymentEditor reads the payments JSON field of a personnel form.
func DecodePaymentEditor(form url.Values) (*PaymentEditor, error) {
	var payments []models.Payment
	if _, err := api.JSONField(form, paymentsField, &payments); err != nil {
		return nil, err
	}
	return NewPaymentEditor(payments), nil
}

func (e *PaymentEditor) Add(p models.Payment) models.PaymentKey {
	key := models.NewDraftKey()
	p.ID = 0
	e.rows = append(e.rows, PaymentRow{Key: key, Payment: p})
	return key
}

func (e *PaymentEditor) Update(key models.PaymentKey, p models.Payment) bool {
	for i := range e.rows {
		if e.rows[i].Key == key {
			if id, ok := key.ServerID(); ok {
				p.ID = id
			} else {
				p.ID = 0
			}
			e.rows[i].Payment = p
			return true
		}
	}
	return false
}

func (e *PaymentEditor) Remove(key models.PaymentKey) bool {
	for i := range e.rows {
		if e.rows[i].Key == key {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (e *PaymentEditor) Rows() []PaymentRow {
	return append([]PaymentRow(nil), e.rows...)
}

// Payments is what the backend receives: drafts carry no id.
func (e *PaymentEditor) Payments() []models.Payment {
	out := make([]models.Payment, 0, len(e.rows))
	for _, r := range e.rows {
		out = append(out, r.Payment)
	}
	return out
}

// Encode writes the payments into the parent form's hidden JSON field.
func (e *PaymentEditor) Encode(form url.Values) error {
	return api.SetJSONField(form, paymentsField, e.Payments())
}
