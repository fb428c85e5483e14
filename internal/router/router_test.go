package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stoktakip/internal/config"
	"stoktakip/internal/dto"
	"stoktakip/internal/kvstore/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		AdminUser:          "admin",
		AdminPasswordHash:  string(hash),
	}

	srv := httptest.NewServer(New(cfg, memory.New(), nil))
	t.Cleanup(srv.Close)

	// Log in once for the protected-route tests.
	body, _ := json.Marshal(dto.LoginRequest{Username: "admin", Password: "hunter2"})
	resp, err := srv.Client().Post(srv.URL+"/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	return srv, login.Token
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/v1/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/v1/auth/login", "",
		dto.LoginRequest{Username: "admin", Password: "wrong"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Full cycle over HTTP: create a product, sell it, verify stock, oversell
// gets a 409.
func TestSaleFlowOverHTTP(t *testing.T) {
	srv, token := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/v1/products", token, map[string]any{
		"name":           "USB-C cable",
		"category_id":    "accessories",
		"stock":          5,
		"min_stock":      1,
		"purchase_price": "50",
		"sale_price":     "80",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product dto.ProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	resp.Body.Close()

	resp = do(t, srv, http.MethodPost, "/v1/sales", token, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/products/"+product.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, 2, got.Stock)

	// Only 2 left — selling 3 conflicts.
	resp = do(t, srv, http.MethodPost, "/v1/sales", token, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 3}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestValidationErrorsReturn422(t *testing.T) {
	srv, token := newTestServer(t)

	// Missing required fields.
	resp := do(t, srv, http.MethodPost, "/v1/customers", token, map[string]any{"name": ""})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
