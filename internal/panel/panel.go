// Package panel is one operator's session: backend client, cached lists, data hooks
// and the analytics filter state, wired together.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-clinic-panel/internal/analytics"
	"go-clinic-panel/internal/api"
	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/config"
	"go-clinic-panel/internal/hooks"
	"go-clinic-panel/internal/models"
	"go-clinic-panel/internal/store"

	"github.com/sirupsen/logrus"
)

var ErrNotLoggedIn = errors.New("not logged in")

type Panel struct {
	Client  *api.Client
	Tokens  *auth.Tokens
	Store   *store.Store
	Hooks   *hooks.Hooks
	Filters *analytics.FilterState

	log *logrus.Logger
}

func New(ctx context.Context, backendURL string, persist auth.Storage, notifier api.Notifier, opts ...api.Option) (*Panel, error) {
	tokens := auth.NewTokens(persist)
	client, err := api.NewClient(backendURL, tokens, notifier, opts...)
	if err != nil {
		return nil, err
	}
	s := store.New(ctx, persist)
	return &Panel{
		Client:  client,
		Tokens:  tokens,
		Store:   s,
		Hooks:   hooks.New(client, s),
		Filters: analytics.NewFilterState(),
		log:     config.GetLogger(),
	}, nil
}

// Login authenticates against the backend and loads the current user.
func (p *Panel) Login(ctx context.Context, username, password string) (*models.User, error) {
	if err := p.Client.Login(ctx, username, password); err != nil {
		return nil, err
	}
	return p.LoadCurrentUser(ctx)
}

// LoadCurrentUser fetches the user list and picks the one the access token belongs to.
// Non-admin accounts only see themselves, so a single row is taken as the caller.
func (p *Panel) LoadCurrentUser(ctx context.Context) (*models.User, error) {
	if err := p.Hooks.Users.GetList(ctx); err != nil {
		return nil, err
	}
	users := p.Store.Users()

	token, err := p.Tokens.Access(ctx)
	if err != nil {
		return nil, err
	}
	var current *models.User
	if claims, err := auth.PeekClaims(token); err == nil {
		for i := range users {
			if users[i].ID == claims.UserID {
				current = &users[i]
				break
			}
		}
	}
	if current == nil && len(users) == 1 {
		current = &users[0]
	}
	if current == nil {
		return nil, fmt.Errorf("current user not found among %d users", len(users))
	}

	u := *current
	if err := p.Store.SetAuth(ctx, &u); err != nil {
		return nil, fmt.Errorf("persist current user: %w", err)
	}
	p.log.WithFields(logrus.Fields{"user": u.Username, "admin": u.IsAdmin}).Info("operator logged in")
	return &u, nil
}

// Logout drops tokens, the persisted user and every cached list.
func (p *Panel) Logout(ctx context.Context) error {
	if err := p.Client.Logout(ctx); err != nil {
		return err
	}
	if err := p.Store.SetAuth(ctx, nil); err != nil {
		return err
	}
	p.Store.Reset()
	return nil
}

// LoggedIn is true while an access token is stored.
func (p *Panel) LoggedIn(ctx context.Context) bool {
	token, err := p.Tokens.Access(ctx)
	return err == nil && token != ""
}

// RefreshAll fetches every list the analytics views read. The fetches run concurrently;
// each replaces its own list as it lands.
func (p *Panel) RefreshAll(ctx context.Context) error {
	if !p.LoggedIn(ctx) {
		return ErrNotLoggedIn
	}
	fetches := []func(context.Context) error{
		p.Hooks.Clients.GetList,
		p.Hooks.Personnel.GetList,
		p.Hooks.Services.GetList,
		p.Hooks.Items.GetList,
		p.Hooks.Payments.GetList,
		p.Hooks.Visits.GetList,
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fetches))
	for i, fetch := range fetches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fetch(ctx)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Loading is true while any hook has a call in flight.
func (p *Panel) Loading() bool {
	h := p.Hooks
	return h.Clients.Loading() || h.Personnel.Loading() || h.Services.Loading() ||
		h.Items.Loading() || h.Payments.Loading() || h.Visits.Loading() || h.Users.Loading()
}

type PersonnelReport struct {
	Rows    []analytics.PersonnelRow   `json:"rows"`
	Summary analytics.PersonnelSummary `json:"summary"`
}

type VisitReport struct {
	Rows    []analytics.VisitRow   `json:"rows"`
	Summary analytics.VisitSummary `json:"summary"`
}

type InventoryReport struct {
	Rows    []analytics.InventoryRow   `json:"rows"`
	Summary analytics.InventorySummary `json:"summary"`
}

// Reports read one snapshot so every list comes from the same moment.

func (p *Panel) PersonnelReport(f analytics.PersonnelFilter) PersonnelReport {
	snap := p.Store.Snapshot()
	rows := analytics.PersonnelRows(snap.Personnel, snap.Visits, snap.Services, f)
	return PersonnelReport{Rows: rows, Summary: analytics.SummarizePersonnel(rows)}
}

func (p *Panel) VisitReport(f analytics.VisitFilter) VisitReport {
	rows := analytics.VisitRows(p.Store.Visits(), f)
	return VisitReport{Rows: rows, Summary: analytics.SummarizeVisits(rows)}
}

func (p *Panel) InventoryReport(f analytics.InventoryFilter) InventoryReport {
	snap := p.Store.Snapshot()
	rows := analytics.InventoryRows(snap.Items, snap.Visits, f)
	return InventoryReport{Rows: rows, Summary: analytics.SummarizeInventory(rows)}
}
