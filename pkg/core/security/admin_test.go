package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() *AdminAuth {
	return NewAdminAuth([]byte("test-secret"), time.Hour)
}

func testApp(auth *AdminAuth, roles ...string) *fiber.App {
	f := fiber.New()
	f.Get("/admin/ping", auth.RequireAdminAuth(roles...), func(c *fiber.Ctx) error {
		id, err := GetAdminID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	})
	return f
}

func TestAdminTokenRoundTrip(t *testing.T) {
	auth := newTestAuth()
	token, expireAt, err := auth.CreateAdminToken(&AdminClaims{
		ID:      7,
		Account: "admin",
		IsSuper: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expireAt, time.Now().Unix())

	f := testApp(auth)
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdminAuthRejectsMissingToken(t *testing.T) {
	f := testApp(newTestAuth())

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	resp, err := f.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdminAuthRejectsForgedToken(t *testing.T) {
	other := NewAdminAuth([]byte("another-secret"), time.Hour)
	token, _, err := other.CreateAdminToken(&AdminClaims{ID: 1, Account: "admin"})
	require.NoError(t, err)

	f := testApp(newTestAuth())
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdminAuthRoleCheck(t *testing.T) {
	auth := newTestAuth()
	token, _, err := auth.CreateAdminToken(&AdminClaims{ID: 2, Account: "ops", Roles: []string{"viewer"}})
	require.NoError(t, err)

	f := testApp(auth, "deployer")
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)

	// 超级管理员跳过角色校验
	superToken, _, err := auth.CreateAdminToken(&AdminClaims{ID: 3, Account: "root", IsSuper: true})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+superToken)
	resp, err = f.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
