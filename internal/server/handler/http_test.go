package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosslink-labs/crm-oauth/internal/oauth"
)

// stubExchanger implements oauth.Exchanger for handler tests
type stubExchanger struct {
	name   string
	record *oauth.TokenRecord
	err    error

	gotInput oauth.ConnectionInput
}

func (s *stubExchanger) Name() string { return s.name }

func (s *stubExchanger) Exchange(ctx context.Context, input oauth.ConnectionInput) (*oauth.TokenRecord, error) {
	s.gotInput = input
	return s.record, s.err
}

func (s *stubExchanger) AuthorizeURL(clientID, redirectURI, state string, scopes []string) string {
	return "https://vendor.example.com/authorize?client_id=" + clientID
}

func newTestMux(exchangers ...oauth.Exchanger) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(oauth.NewRegistry(exchangers...)).RegisterRoutes(mux)
	return mux
}

func TestHandleHealth(t *testing.T) {
	mux := newTestMux(&stubExchanger{name: "hubspot"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, []any{"hubspot"}, body["providers"])
}

func TestHandleTokenExchange(t *testing.T) {
	stub := &stubExchanger{
		name: "hubspot",
		record: &oauth.TokenRecord{
			AccessToken:  "A",
			RefreshToken: "R",
			ExpiresIn:    3600,
			TokenType:    "Bearer",
			Meta:         map[string]any{},
		},
	}
	mux := newTestMux(stub)

	payload := `{
		"client_id": "cid",
		"client_secret": "cs",
		"metadata": {"code": "c", "redirect_uri": "https://example.com/cb"}
	}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/oauth/hubspot/token", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var record oauth.TokenRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "A", record.AccessToken)
	assert.Equal(t, "R", record.RefreshToken)
	assert.Equal(t, 3600, record.ExpiresIn)
	assert.Equal(t, "Bearer", record.TokenType)

	assert.Equal(t, "cid", stub.gotInput.ClientID)
	assert.Equal(t, "c", stub.gotInput.Metadata.Code)
	assert.Equal(t, "https://example.com/cb", stub.gotInput.Metadata.RedirectURI)
}

func TestHandleTokenExchangeUnknownProvider(t *testing.T) {
	mux := newTestMux(&stubExchanger{name: "hubspot"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/oauth/pipedrive/token", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown_provider", body["error"])
}

func TestHandleTokenExchangeFailure(t *testing.T) {
	stub := &stubExchanger{
		name: "hubspot",
		err: &oauth.ExchangeError{
			Provider: "hubspot",
			Err:      errors.New("token endpoint returned status 400"),
		},
	}
	mux := newTestMux(stub)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/oauth/hubspot/token", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "exchange_failed", body["error"])
	assert.Contains(t, body["error_description"], "token exchange failed for hubspot")
}

func TestHandleTokenExchangeBadBody(t *testing.T) {
	mux := newTestMux(&stubExchanger{name: "hubspot"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/oauth/hubspot/token", strings.NewReader(`{not-json`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAuthorizeURL(t *testing.T) {
	mux := newTestMux(&stubExchanger{name: "hubspot"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/oauth/hubspot/authorize-url?client_id=cid&redirect_uri=https%3A%2F%2Fexample.com%2Fcb&state=s", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://vendor.example.com/authorize?client_id=cid", body["url"])
}

func TestHandleAuthorizeURLMissingParams(t *testing.T) {
	mux := newTestMux(&stubExchanger{name: "hubspot"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/oauth/hubspot/authorize-url", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
