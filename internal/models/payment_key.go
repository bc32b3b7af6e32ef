package models

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// PaymentKey identifies a payment row in an editor. A row is either a draft that only exists
// locally or a payment the backend already assigned an id to; the two never share an id space.
type PaymentKey struct {
	draft  string
	server int
}

func NewDraftKey() PaymentKey {
	return PaymentKey{draft: uuid.NewString()}
}

func PersistedKey(serverID int) PaymentKey {
	return PaymentKey{server: serverID}
}

func (k PaymentKey) IsDraft() bool { return k.draft != "" }

// ServerID returns the backend id; ok is false for drafts.
func (k PaymentKey) ServerID() (int, bool) {
	if k.IsDraft() {
		return 0, false
	}
	return k.server, true
}

func (k PaymentKey) String() string {
	if k.IsDraft() {
		return "draft:" + k.draft
	}
	return strconv.Itoa(k.server)
}

// ParsePaymentKey is the inverse of String.
func ParsePaymentKey(s string) (PaymentKey, bool) {
	if len(s) > 6 && s[:6] == "draft:" {
		if _, err := uuid.Parse(s[6:]); err != nil {
			return PaymentKey{}, false
		}
		return PaymentKey{draft: s[6:]}, true
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return PaymentKey{}, false
	}
	return PersistedKey(id), true
}

func (k PaymentKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PaymentKey) UnmarshalText(b []byte) error {
	parsed, ok := ParsePaymentKey(string(b))
	if !ok {
		return fmt.Errorf("invalid payment key %q", b)
	}
	*k = parsed
	return nil
}
