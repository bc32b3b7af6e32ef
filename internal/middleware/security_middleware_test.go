package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/models"
	"go-clinic-panel/internal/store"

	"github.com/gin-gonic/gin"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", mw, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func serve(r *gin.Engine) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireSession(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokens(auth.NewMemoryStorage())
	r := newRouter(RequireSession(tokens))

	if code := serve(r); code != http.StatusUnauthorized {
		t.Fatalf("without token: got %d", code)
	}
	if err := tokens.Save(ctx, "opaque-token", "refresh"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if code := serve(r); code != http.StatusNoContent {
		t.Fatalf("with token: got %d", code)
	}
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	s := store.New(ctx, auth.NewMemoryStorage())
	r := newRouter(RequireAdmin(s))

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"staff", &models.User{ID: 2, Username: "reception"}, http.StatusForbidden},
		{"admin", &models.User{ID: 1, Username: "owner", IsAdmin: true}, http.StatusNoContent},
	}
	for _, tt := range tests {
		if err := s.SetAuth(ctx, tt.user); err != nil {
			t.Fatalf("%s: SetAuth: %v", tt.name, err)
		}
		if got := serve(r); got != tt.want {
			t.Fatalf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}
