package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/storefront-cart/internal/app/dto"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/config"
	storehttp "github.com/mrops-br/storefront-cart/internal/infrastructure/http"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	telem, err := telemetry.NewNoOpTelemetry(cfg, io.Discard)
	require.NoError(t, err)

	srv := httptest.NewServer(storehttp.NewDevelopmentServer(&cfg.Server, memory.DefaultCatalog(), telem).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func login(t *testing.T, base string) string {
	t.Helper()
	creds := dto.LoginRequest{Username: "crio.do", Password: "learnbydoing"}

	resp, _ := call(t, http.MethodPost, base+"/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := call(t, http.MethodPost, base+"/auth/login", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Success)
	assert.Equal(t, "crio.do", out.Username)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := call(t, http.MethodGet, srv.URL+"/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(raw))
}

func TestProducts(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + storehttp.APIPrefix

	resp, raw := call(t, http.MethodGet, base+"/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, len(memory.DefaultCatalog()))
	assert.Contains(t, string(raw), `"_id"`)

	resp, raw = call(t, http.MethodGet, base+"/products/search?value=ball", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Basketball", list[0].Name)

	resp, raw = call(t, http.MethodGet, base+"/products/search?value=zzz", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var status dto.StatusResponse
	require.NoError(t, json.Unmarshal(raw, &status))
	assert.False(t, status.Success)
	assert.NotEmpty(t, status.Message)
}

func TestCartRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + storehttp.APIPrefix

	for _, token := range []string{"", "forged"} {
		resp, raw := call(t, http.MethodGet, base+"/cart", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var status dto.StatusResponse
		require.NoError(t, json.Unmarshal(raw, &status))
		assert.Equal(t, "Protected route, Oauth2 Bearer token not found", status.Message)
	}
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + storehttp.APIPrefix
	token := login(t, base)

	resp, raw := call(t, http.MethodGet, base+"/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))

	resp, raw = call(t, http.MethodPost, base+"/cart", token, dto.CartItem{ProductID: "upLK9JbQ4rMhTwt4", Qty: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"productId":"upLK9JbQ4rMhTwt4","qty":2}]`, string(raw))

	resp, raw = call(t, http.MethodPost, base+"/cart", token, dto.CartItem{ProductID: "nope", Qty: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(raw), "Product doesn't exist")

	resp, raw = call(t, http.MethodPost, base+"/cart", token, dto.CartItem{ProductID: "upLK9JbQ4rMhTwt4", Qty: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestAuthErrors(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + storehttp.APIPrefix
	login(t, base)

	resp, raw := call(t, http.MethodPost, base+"/auth/register", "", dto.LoginRequest{Username: "crio.do", Password: "learnbydoing"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Username is already taken")

	resp, raw = call(t, http.MethodPost, base+"/auth/login", "", dto.LoginRequest{Username: "crio.do", Password: "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Password is incorrect")

	resp, _ = call(t, http.MethodPost, base+"/auth/login", "", dto.LoginRequest{Username: "crio.do"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	call(t, http.MethodGet, srv.URL+storehttp.APIPrefix+"/products", "", nil)
	resp, raw := call(t, http.MethodGet, srv.URL+"/metrics", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "http_server_request_duration")
}
