package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callRequirePermission(t *testing.T, user *AppUser, permission string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	cc := &AppContext{Context: c, App: &App{}, User: user}

	handler := RequirePermission(permission)(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	if err := handler(cc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec.Code
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name string
		user *AppUser
		want int
	}{
		{
			name: "no user",
			user: nil,
			want: http.StatusUnauthorized,
		},
		{
			name: "missing permission",
			user: &AppUser{UserID: 1, Role: "user", Permissions: []string{"graph.view"}},
			want: http.StatusForbidden,
		},
		{
			name: "has permission",
			user: &AppUser{UserID: 1, Role: "user", Permissions: []string{"coverage.view"}},
			want: http.StatusOK,
		},
		{
			name: "admin without explicit permission",
			user: &AppUser{UserID: 2, Role: "admin"},
			want: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := callRequirePermission(t, tt.user, "coverage.view")
			if got != tt.want {
				t.Fatalf("unexpected status: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasPermission(t *testing.T) {
	user := &AppUser{Permissions: []string{"graph.view"}}
	if !HasPermission(user, "graph.view") {
		t.Fatal("permission should be present")
	}
	if HasPermission(user, "wiki.reindex") {
		t.Fatal("permission should be absent")
	}
	if HasPermission(nil, "graph.view") {
		t.Fatal("nil user has no permissions")
	}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(&AppUser{Role: "admin"}) {
		t.Fatal("admin role should be detected")
	}
	if IsAdmin(&AppUser{Role: "user"}) {
		t.Fatal("user role is not admin")
	}
	if IsAdmin(nil) {
		t.Fatal("nil user is not admin")
	}
}
