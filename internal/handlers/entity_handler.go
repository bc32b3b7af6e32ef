package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go-clinic-panel/internal/hooks"
	"go-clinic-panel/internal/models"
	"go-clinic-panel/internal/panel"
	"go-clinic-panel/internal/policy"

	"github.com/gin-gonic/gin"
)

// resource is the part of a hooks.Resource the entity routes drive.
type resource interface {
	Kind() models.Kind
	Loading() bool
	GetList(ctx context.Context) error
	Create(ctx context.Context, form url.Values) error
	Update(ctx context.Context, form url.Values) error
	Delete(ctx context.Context, id int) error
}

type entity struct {
	res  resource
	list func() any
}

var entities map[string]entity

func buildEntities(p *panel.Panel) map[string]entity {
	h := p.Hooks
	return map[string]entity{
		"clients":   {h.Clients, func() any { return h.Clients.List() }},
		"personnel": {h.Personnel, func() any { return h.Personnel.List() }},
		"services":  {h.Services, func() any { return h.Services.List() }},
		"items":     {h.Items, func() any { return h.Items.List() }},
		"payments":  {h.Payments, func() any { return h.Payments.List() }},
		"visits":    {h.Visits, func() any { return h.Visits.List() }},
		"users":     {h.Users, func() any { return h.Users.List() }},
	}
}

func lookupEntity(c *gin.Context) (entity, bool) {
	e, ok := entities[c.Param("entity")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown entity"})
	}
	return e, ok
}

// GetEntities returns the cached list. ?refresh=1 refetches it first.
func GetEntities(c *gin.Context) {
	e, ok := lookupEntity(c)
	if !ok {
		return
	}
	if c.Query("refresh") == "1" {
		if err := e.res.GetList(c.Request.Context()); err != nil {
			abortWithBackendError(c, "handlers", "GetEntities", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": e.list(), "loading": e.res.Loading()})
}

func CreateEntity(c *gin.Context) {
	mutateEntity(c, models.ActionAdd)
}

func UpdateEntity(c *gin.Context) {
	mutateEntity(c, models.ActionChange)
}

func mutateEntity(c *gin.Context, action models.Action) {
	e, ok := lookupEntity(c)
	if !ok || !allowed(c, action, e.res.Kind()) {
		return
	}

	form, err := readForm(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form"})
		return
	}
	if e.res.Kind() == models.KindPersonnel {
		if err := normalizePayments(form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	if action == models.ActionAdd {
		err = e.res.Create(ctx, form)
	} else {
		err = e.res.Update(ctx, form)
	}
	if err != nil {
		abortWithBackendError(c, "handlers", "mutateEntity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": e.list()})
}

func DeleteEntity(c *gin.Context) {
	e, ok := lookupEntity(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	if !allowed(c, models.ActionDelete, e.res.Kind()) {
		return
	}

	if err := e.res.Delete(c.Request.Context(), id); err != nil {
		abortWithBackendError(c, "handlers", "DeleteEntity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": e.list()})
}

// allowed answers 403 up front; the hook would otherwise skip the call silently.
func allowed(c *gin.Context, action models.Action, kind models.Kind) bool {
	if policy.Allow(app.Store.Auth(), action, kind) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to " + string(action) + " " + string(kind)})
	return false
}

// readForm accepts both urlencoded and multipart bodies.
func readForm(r *http.Request) (url.Values, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	form := url.Values{}
	for k, vs := range r.PostForm {
		form[k] = append([]string(nil), vs...)
	}
	return form, nil
}

// normalizePayments re-encodes the nested payments list so draft rows go out without ids.
func normalizePayments(form url.Values) error {
	if form.Get("payments") == "" {
		return nil
	}
	editor, err := hooks.DecodePaymentEditor(form)
	if err != nil {
		return err
	}
	return editor.Encode(form)
}
