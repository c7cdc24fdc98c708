package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
)

type fakeChecker map[string]bool

func (f fakeChecker) HasPermission(_ context.Context, _ uint, p string) (bool, error) {
	if p == "broken" {
		return false, errors.New("db down")
	}
	return f[p], nil
}

func serve(userID uint, perms ...string) int {
	h := rbac.Can(fakeChecker{"admin.access": true, "products.manage": true}, perms...)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestCan(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(0, "admin.access"))
	assert.Equal(t, http.StatusOK, serve(1, "admin.access", "products.manage"))
	assert.Equal(t, http.StatusForbidden, serve(1, "admin.access", "users.manage"))
	assert.Equal(t, http.StatusInternalServerError, serve(1, "broken"))
}
