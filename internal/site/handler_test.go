package site

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	content, err := LoadEmbedded()
	require.NoError(t, err)
	h := NewHandler(content, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/site/navigation", h.Navigation)
	r.Get("/site/route", h.ResolveRoute)
	r.Get("/site/home", h.Home)
	r.Get("/site/about", h.About)
	r.Get("/site/marketplace", h.Marketplace)
	r.Get("/wallets", h.WalletOptions)
	r.Post("/wallets/connect", h.WalletConnect)
	return r
}

func serve(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewReader(body)))
	return rec
}

func TestNavigationEndpoint(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/site/navigation", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body NavigationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TerraPulse", body.Brand.Name)
	assert.Equal(t, "/", body.Navigation[0].Path)
}

func TestResolveRouteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/site/route?path=/nft-tokens", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/nft-tokens","view":"nft-tokens"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/site/route?path=/about-us", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/site/route", nil).Code)
}

func TestMarketplaceEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/site/marketplace?timeframe=7d", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Timeframe string  `json:"timeframe"`
		Trades    []Trade `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "7d", body.Timeframe)
	assert.NotEmpty(t, body.Trades)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/site/marketplace?timeframe=1y", nil).Code)
}

func TestHomeAndAboutEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/site/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var home Home
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &home))
	assert.Equal(t, "TerraPulse", home.Headline)
	assert.Equal(t, "Join the Conservation Revolution", home.CTA.Title)

	rec = serve(router, http.MethodGet, "/site/about", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var about About
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &about))
	assert.Len(t, about.Team, 2)
}

func TestWalletConnectIsStubbed(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/wallets", nil).Code)

	for _, wallet := range []string{"Internet Identity", "plug wallet"} {
		rec := serve(router, http.MethodPost, "/wallets/connect", []byte(`{"wallet":"`+wallet+`"}`))
		assert.Equal(t, http.StatusNotImplemented, rec.Code, wallet)
		assert.NotContains(t, rec.Body.String(), "connected", wallet)
	}

	rec := serve(router, http.MethodPost, "/wallets/connect", []byte(`{"wallet":"MetaMask"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/wallets/connect", []byte(`{"wallet":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
