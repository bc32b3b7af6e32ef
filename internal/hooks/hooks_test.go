package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"go-clinic-panel/internal/models"
	"go-clinic-panel/internal/store"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// fakeBackend answers GETs from canned JSON and records every call.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []call
	lists   map[string]string
	failure error
}

func (f *fakeBackend) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeBackend) Get(_ context.Context, path string, query url.Values, out any) error {
	f.record(call{Method: "GET", Path: path, Query: query})
	return json.Unmarshal([]byte(f.lists[path]), out)
}

func (f *fakeBackend) Post(_ context.Context, path string, body, _ any) error {
	f.record(call{Method: "POST", Path: path, Body: body})
	return f.failure
}

func (f *fakeBackend) Put(_ context.Context, path string, body, _ any) error {
	f.record(call{Method: "PUT", Path: path, Body: body})
	return f.failure
}

func (f *fakeBackend) Delete(_ context.Context, path string, query url.Values) error {
	f.record(call{Method: "DELETE", Path: path, Query: query})
	return f.failure
}

func newHooks(t *testing.T, user *models.User) (*Hooks, *fakeBackend, *store.Store) {
	t.Helper()
	ctx := context.Background()
	s := store.New(ctx, nil)
	if user != nil {
		s.SetAuth(ctx, user)
	}
	backend := &fakeBackend{lists: map[string]string{
		"clients/":  `[{"id":1,"name":"Sara"},{"id":2,"name":"Omid"}]`,
		"personel/": `[{"id":4,"name":"Dr. Rahimi","precent":40}]`,
		"visit/":    `[{"id":9,"client":{"id":1},"operations":[]}]`,
	}}
	return New(backend, s), backend, s
}

func TestGetList_ReplacesStore(t *testing.T) {
	h, _, s := newHooks(t, nil)
	if err := h.Clients.GetList(context.Background()); err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if got := s.Clients(); len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected server order kept, got %+v", got)
	}
	if h.Clients.Loading() {
		t.Fatalf("loading must be false after the call returns")
	}
}

func TestDelete_WithoutPermissionMakesNoCalls(t *testing.T) {
	h, backend, s := newHooks(t, &models.User{ID: 2, Permissions: []models.Permission{"add_client"}})
	ctx := context.Background()
	h.Clients.GetList(ctx)
	backend.calls = nil

	if err := h.Clients.Delete(ctx, 1); err != nil {
		t.Fatalf("denied delete must be a silent no-op, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("expected zero network calls, got %+v", backend.calls)
	}
	if len(s.Clients()) != 2 {
		t.Fatalf("list must be unchanged")
	}
}

func TestCreate_RefetchesAfterSuccess(t *testing.T) {
	h, backend, _ := newHooks(t, &models.User{ID: 2, Permissions: []models.Permission{"add_client"}})

	form := url.Values{"name": {"Leila"}}
	if err := h.Clients.Create(context.Background(), form); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(backend.calls) != 2 {
		t.Fatalf("expected POST then GET, got %+v", backend.calls)
	}
	if backend.calls[0].Method != "POST" || backend.calls[1].Method != "GET" {
		t.Fatalf("unexpected order %+v", backend.calls)
	}
	body := backend.calls[0].Body.(map[string]any)
	if body["name"] != "Leila" {
		t.Fatalf("expected flattened form body, got %+v", body)
	}
}

func TestMutationFailure_SkipsRefetch(t *testing.T) {
	h, backend, _ := newHooks(t, &models.User{IsAdmin: true})
	backend.failure = errors.New("boom")

	if err := h.Clients.Update(context.Background(), url.Values{"id": {"1"}}); err == nil {
		t.Fatalf("expected update error")
	}
	if len(backend.calls) != 1 {
		t.Fatalf("failed mutation must not refetch, got %+v", backend.calls)
	}
}

func TestPersonnelDelete_UsesPersonelID(t *testing.T) {
	h, backend, _ := newHooks(t, &models.User{IsAdmin: true})

	if err := h.Personnel.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	del := backend.calls[0]
	if del.Path != "personel/" || del.Query.Get("personel_id") != "4" || del.Query.Has("id") {
		t.Fatalf("unexpected delete call %+v", del)
	}
}

func TestVisits_AreNotPermissionGated(t *testing.T) {
	h, backend, s := newHooks(t, &models.User{ID: 3})

	if err := h.Visits.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(backend.calls) != 2 || backend.calls[0].Query.Get("id") != "9" {
		t.Fatalf("expected delete + refetch, got %+v", backend.calls)
	}
	if len(s.Visits()) != 1 {
		t.Fatalf("expected refetched visits in store")
	}
}
