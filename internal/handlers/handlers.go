// Package handlers is the gin surface of the panel gateway.
package handlers

import (
	"errors"
	"net/http"

	"go-clinic-panel/internal/analytics"
	"go-clinic-panel/internal/api"
	"go-clinic-panel/internal/config"
	"go-clinic-panel/internal/panel"
	"go-clinic-panel/internal/store"

	"github.com/gin-gonic/gin"
)

var (
	app          *panel.Panel
	hub          *Hub
	geminiAPIKey string
)

// Setup hands the handlers the panel they act on and the events hub. It also routes
// store changes and filter badge updates to the hub.
func Setup(p *panel.Panel, h *Hub, cfg *config.Config) {
	app, hub = p, h
	geminiAPIKey, allowedOrigin = cfg.GeminiAPIKey, cfg.AllowedOrigin
	entities = buildEntities(p)

	if h == nil {
		return
	}
	p.Store.Subscribe(func(e store.Event) { h.Publish(EventStore, e) })
	p.Filters.OnChange(func(tab analytics.Tab, count int) {
		h.Publish(EventFilters, gin.H{"tab": tab, "activeFilterCount": count})
	})
}

// abortWithBackendError maps a backend failure onto the gateway response. Backend
// client errors keep their status; anything else is a bad gateway.
func abortWithBackendError(c *gin.Context, module, funcName string, err error) {
	status := api.StatusOf(err)
	var apiErr *api.Error
	if status == 0 || status >= 500 {
		config.LogError(config.GetLogger(), module, funcName, c.Request.URL.Path, nil, err)
		if status == 0 {
			status = http.StatusBadGateway
		}
	}
	msg := err.Error()
	if errors.As(err, &apiErr) {
		msg = apiErr.Detail
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
