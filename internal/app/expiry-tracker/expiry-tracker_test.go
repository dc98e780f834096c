package expirytracker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
)

type apiResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{
		Env:             config.EnvLocal,
		Storage:         config.Storage{Driver: config.DriverSQLite, ConnectionString: ":memory:"},
		RedisConnection: config.RedisConnection{RedisAddress: mr.Addr()},
		JWTToken:        config.JWTToken{JWTSecretKey: "test-secret", TokenTTL: time.Hour},
		Inventory:       config.Inventory{HorizonDays: 180},
		RateLimit:       config.RateLimit{RPS: 100, Burst: 100},
	}
	app, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.close() })

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestApp_EndToEnd(t *testing.T) {
	srv := newTestApp(t)
	c := &apiClient{t: t, base: srv.URL}

	resp, _ := c.do(http.MethodPost, "/api/v1/signup", map[string]string{"email": "owner@pharmacy.ng", "password": "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := c.do(http.MethodPost, "/api/v1/signin", map[string]string{"email": "owner@pharmacy.ng", "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var envelope apiResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &session))
	require.NotEmpty(t, session.Token)
	c.token = session.Token

	inTwoMonths := time.Now().AddDate(0, 0, 60).Format("2006-01-02")
	for _, rec := range []map[string]any{
		{"product_name": "Vitamin C", "quantity": 20, "expiry_date": "2099-12-31"},
		{"product_name": "Paracetamol 500mg", "quantity": 10, "expiry_date": "2020-01-01"},
		{"product_name": "Amoxicillin", "quantity": 5, "expiry_date": inTwoMonths},
	} {
		resp, body := c.do(http.MethodPost, "/api/v1/records", rec)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body = c.do(http.MethodPost, "/api/v1/records", map[string]any{"product_name": "Bad", "quantity": 0, "expiry_date": "2025-01-01"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

	type listed struct {
		Records []struct {
			ProductName string `json:"product_name"`
			Status      string `json:"status"`
		} `json:"records"`
	}
	list := func(view string) listed {
		resp, body := c.do(http.MethodGet, "/api/v1/records?view="+view, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var env apiResponse
		require.NoError(t, json.Unmarshal(body, &env))
		var l listed
		require.NoError(t, json.Unmarshal(env.Data, &l))
		return l
	}

	byExpiry := list("by-expiry")
	require.Len(t, byExpiry.Records, 3)
	assert.Equal(t, "Paracetamol 500mg", byExpiry.Records[0].ProductName)
	assert.Equal(t, "URGENT", byExpiry.Records[0].Status)
	assert.Equal(t, "Amoxicillin", byExpiry.Records[1].ProductName)
	assert.Equal(t, "WARNING", byExpiry.Records[1].Status)
	assert.Equal(t, "Vitamin C", byExpiry.Records[2].ProductName)
	assert.Equal(t, "SAFE", byExpiry.Records[2].Status)

	nearExpiry := list("near-expiry")
	require.Len(t, nearExpiry.Records, 2)
	assert.Equal(t, "Paracetamol 500mg", nearExpiry.Records[0].ProductName)
	assert.Equal(t, "Amoxicillin", nearExpiry.Records[1].ProductName)

	resp, body = c.do(http.MethodGet, "/api/v1/records/export?view=by-expiry", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "product_name,quantity,expiry_date,status", lines[0])
	assert.Equal(t, "Paracetamol 500mg,10,2020-01-01,URGENT", lines[1])
	assert.Equal(t, "Vitamin C,20,2099-12-31,SAFE", lines[3])

	resp, _ = c.do(http.MethodPost, "/api/v1/signout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/v1/records", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApp_OwnersAreIsolated(t *testing.T) {
	srv := newTestApp(t)

	signIn := func(email string) *apiClient {
		c := &apiClient{t: t, base: srv.URL}
		resp, _ := c.do(http.MethodPost, "/api/v1/signup", map[string]string{"email": email, "password": "secret123"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp, body := c.do(http.MethodPost, "/api/v1/signin", map[string]string{"email": email, "password": "secret123"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var env apiResponse
		require.NoError(t, json.Unmarshal(body, &env))
		var session struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &session))
		c.token = session.Token
		return c
	}

	alice := signIn("alice@pharmacy.ng")
	bob := signIn("bob@pharmacy.ng")

	resp, _ := alice.do(http.MethodPost, "/api/v1/records", map[string]any{"product_name": "Insulin", "quantity": 2, "expiry_date": "2030-06-01"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := bob.do(http.MethodGet, "/api/v1/records", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"records":[]`)
	assert.Contains(t, string(body), "No products in inventory.")
}

func TestApp_PublicEndpoints(t *testing.T) {
	srv := newTestApp(t)
	c := &apiClient{t: t, base: srv.URL}

	resp, _ := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	resp, body = c.do(http.MethodGet, "/docs/doc.json", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Pharmacy Expiry Tracker API")

	resp, _ = c.do(http.MethodGet, "/api/v1/records", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
