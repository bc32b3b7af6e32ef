package auth

import "context"

const (
	KeyToken   = "token"
	KeyRefresh = "refresh"
)

// Tokens reads and writes the bearer and refresh tokens. Every outgoing request reads the
// token again, so a refresh done by one call is visible to the next.
type Tokens struct {
	s Storage
}

func NewTokens(s Storage) *Tokens {
	return &Tokens{s: s}
}

func (t *Tokens) Access(ctx context.Context) (string, error) {
	v, _, err := t.s.Get(ctx, KeyToken)
	return v, err
}

func (t *Tokens) Refresh(ctx context.Context) (string, error) {
	v, _, err := t.s.Get(ctx, KeyRefresh)
	return v, err
}

// Save stores the access token and, when non-empty, a rotated refresh token.
func (t *Tokens) Save(ctx context.Context, access, refresh string) error {
	if err := t.s.Set(ctx, KeyToken, access); err != nil {
		return err
	}
	if refresh == "" {
		return nil
	}
	return t.s.Set(ctx, KeyRefresh, refresh)
}

func (t *Tokens) Clear(ctx context.Context) error {
	return t.s.Delete(ctx, KeyToken, KeyRefresh)
}
