package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.data[key]
	if ok {
		m.hits++
	}
	return v, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func newTestRouter(t *testing.T, store *memoryCache) http.Handler {
	t.Helper()
	svc, err := NewService(sampleCatalog())
	require.NoError(t, err)
	h := NewHandler(svc, store, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Get("/nfts", h.List)
	r.Get("/nfts/categories", h.Categories)
	r.Get("/nfts/{slug}", h.GetBySlug)
	return r
}

func getList(t *testing.T, router http.Handler, target string) ListResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListDefaultsToAll(t *testing.T) {
	resp := getList(t, newTestRouter(t, newMemoryCache()), "/nfts")
	assert.Equal(t, CategoryAll, resp.Category)
	assert.Equal(t, 5, resp.Count)
	assert.Len(t, resp.Items, 5)
}

func TestListFiltersByCategoryAndQuery(t *testing.T) {
	resp := getList(t, newTestRouter(t, newMemoryCache()), "/nfts?category=Reserves&q=LION")
	assert.Equal(t, CategoryReserves, resp.Category)
	assert.Equal(t, "LION", resp.Query)
	assert.Equal(t, []string{"Sea Lion Cove"}, names(resp.Items))
}

func TestListUnknownCategoryIsEmptyNotError(t *testing.T) {
	resp := getList(t, newTestRouter(t, newMemoryCache()), "/nfts?category=volcanoes")
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}

func TestListServesFromCache(t *testing.T) {
	store := newMemoryCache()
	router := newTestRouter(t, store)

	first := getList(t, router, "/nfts?q=lion")
	second := getList(t, router, "/nfts?q=lion")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.hits)

	getList(t, router, "/nfts?q="+strings.Repeat("x", maxCachedQueryLen+1))
	assert.Equal(t, 2, store.gets, "long queries bypass the cache")
}

func TestCategoriesEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, newMemoryCache()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nfts/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []CategoryOption `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 4)
	assert.Equal(t, CategoryAll, body.Categories[0].ID)
	assert.Equal(t, "Eco Hotels", body.Categories[3].Name)
}

func TestGetBySlugEndpoint(t *testing.T) {
	router := newTestRouter(t, newMemoryCache())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nfts/lion-lodge", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var item Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, 4, item.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nfts/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
