package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requestWithRole(role string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	req = req.WithContext(ctx)
	return e.NewContext(req, httptest.NewRecorder())
}

func callWithRole(role string, required ...string) error {
	handler := RequireRole(required...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(requestWithRole(role))
}

func TestRequireRole_Match(t *testing.T) {
	if err := callWithRole("nurse", "hospital", "nurse"); err != nil {
		t.Errorf("nurse should pass a nurse gate: %v", err)
	}
}

func TestRequireRole_SuperAdminBypassesAll(t *testing.T) {
	if err := callWithRole("super_admin", "nurse"); err != nil {
		t.Errorf("super_admin should pass every gate: %v", err)
	}
}

func TestRequireRole_Mismatch(t *testing.T) {
	err := callWithRole("family", "hospital", "nurse")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireRole_EmptyRole(t *testing.T) {
	err := callWithRole("", "nurse")
	if err == nil {
		t.Fatal("expected 403 for missing role")
	}
}
