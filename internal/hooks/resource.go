// Package hooks exposes one data hook per backend resource: a loading flag, the cached
// list, and permission-gated create/update/delete that refetch the list on success.
package hooks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"

	"go-clinic-panel/internal/api"
	"go-clinic-panel/internal/config"
	"go-clinic-panel/internal/models"
	"go-clinic-panel/internal/policy"
	"go-clinic-panel/internal/store"

	"github.com/sirupsen/logrus"
)

// Backend is the subset of api.Client the hooks use.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, query url.Values) error
}

// Definition describes one backend resource.
type Definition[T any] struct {
	Kind models.Kind
	Path string
	// DeleteParam is the query parameter carrying the id on DELETE; not every
	// resource uses "id".
	DeleteParam string
	Read        func(*store.Store) []T
	Publish     func(*store.Store, []T)
}

type Resource[T any] struct {
	def     Definition[T]
	backend Backend
	store   *store.Store
	loading atomic.Int32
	log     *logrus.Logger
}

func NewResource[T any](def Definition[T], backend Backend, s *store.Store) *Resource[T] {
	return &Resource[T]{def: def, backend: backend, store: s, log: config.GetLogger()}
}

func (r *Resource[T]) Kind() models.Kind { return r.def.Kind }

// Loading is true while any call on this hook is in flight.
func (r *Resource[T]) Loading() bool {
	return r.loading.Load() > 0
}

// List is the last fetched list, in server order.
func (r *Resource[T]) List() []T {
	return r.def.Read(r.store)
}

// GetList fetches the full list and replaces the cached one.
func (r *Resource[T]) GetList(ctx context.Context) error {
	r.loading.Add(1)
	defer r.loading.Add(-1)

	var list []T
	if err := r.backend.Get(ctx, r.def.Path, nil, &list); err != nil {
		return fmt.Errorf("fetch %s: %w", r.def.Kind, err)
	}
	r.def.Publish(r.store, list)
	return nil
}

// Create posts a form payload. Without permission it does nothing.
func (r *Resource[T]) Create(ctx context.Context, form url.Values) error {
	return r.mutate(ctx, models.ActionAdd, func() error {
		return r.backend.Post(ctx, r.def.Path, api.FormObject(form), nil)
	})
}

// Update puts a form payload; the form carries the id.
func (r *Resource[T]) Update(ctx context.Context, form url.Values) error {
	return r.mutate(ctx, models.ActionChange, func() error {
		return r.backend.Put(ctx, r.def.Path, api.FormObject(form), nil)
	})
}

func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.mutate(ctx, models.ActionDelete, func() error {
		q := url.Values{r.def.DeleteParam: {strconv.Itoa(id)}}
		return r.backend.Delete(ctx, r.def.Path, q)
	})
}

func (r *Resource[T]) mutate(ctx context.Context, action models.Action, call func() error) error {
	if !policy.Allow(r.store.Auth(), action, r.def.Kind) {
		r.log.WithFields(logrus.Fields{"kind": r.def.Kind, "action": action}).Debug("mutation skipped, no permission")
		return nil
	}

	r.loading.Add(1)
	err := call()
	r.loading.Add(-1)
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, r.def.Kind, err)
	}
	return r.GetList(ctx)
}
