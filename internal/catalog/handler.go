package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"terrapulse/internal/cache"
	"terrapulse/internal/middleware"
	"terrapulse/internal/transport"

	"github.com/go-chi/chi/v5"
)

// maxCachedQueryLen keeps cache keys bounded; longer queries are always recomputed.
const maxCachedQueryLen = 64

type Handler struct {
	service  *Service
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(service *Service, store cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Handler {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Handler{
		service:  service,
		cache:    store,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

type ListResponse struct {
	Category Category `json:"category"`
	Query    string   `json:"query"`
	Count    int      `json:"count"`
	Items    []Item   `json:"items"`
}

// FilterFromQuery reads the filter from ?category=&q=. A missing category selects
// everything; an unknown one is kept as-is and selects nothing.
func FilterFromQuery(values url.Values) FilterState {
	category := CategoryAll
	if raw := values.Get("category"); strings.TrimSpace(raw) != "" {
		category, _ = ParseCategory(raw)
	}
	return FilterState{Category: category, Query: values.Get("q")}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	filter := FilterFromQuery(r.URL.Query())

	cacheable := len(filter.Query) <= maxCachedQueryLen
	cacheKey := cache.Key("nfts", string(filter.Category), url.QueryEscape(filter.Query))
	if cacheable {
		if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("nfts list: cache hit")
			transport.WriteRawJSON(w, http.StatusOK, cached)
			return
		} else if err != nil {
			log.Warn("nfts list: cache read failed", slog.String("error", err.Error()))
		}
	}

	if _, known := ParseCategory(string(filter.Category)); !known {
		log.Info("nfts list: unknown category", slog.String("category", string(filter.Category)))
	}

	items := h.service.List(filter)
	response := ListResponse{
		Category: filter.Category,
		Query:    filter.Query,
		Count:    len(items),
		Items:    items,
	}

	if cacheable {
		if payload, err := encodeJSON(response); err == nil {
			if err := h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL); err != nil {
				log.Warn("nfts list: cache write failed", slog.String("error", err.Error()))
			}
		}
	}

	log.Info("nfts list: ok", slog.String("category", string(filter.Category)), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	categories := h.service.Categories()
	log.Info("nfts categories: ok", slog.Int("count", len(categories)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := middleware.WithRequest(h.log, r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn("nfts get: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	item, err := h.service.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("nfts get: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "nft not found", nil)
			return
		}
		log.Error("nfts get: lookup error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "lookup error", nil)
		return
	}

	log.Info("nfts get: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, item)
}
