package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"terrapulse/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	router http.Handler
	repo   *fakeRepo
	sends  *atomic.Int32
	gate   chan struct{}
}

// newHandlerFixture wires a handler whose sends block on gate when gated is true.
func newHandlerFixture(t *testing.T, gated bool) *handlerFixture {
	t.Helper()
	f := &handlerFixture{repo: &fakeRepo{}, sends: &atomic.Int32{}, gate: make(chan struct{})}
	svc := NewService(f.repo, nil, time.UTC, false, discardLogger())

	registry := NewRegistry(100, time.Minute, func(sessionID string) *Lifecycle {
		deliver := svc.SendFor(sessionID)
		return NewLifecycle(func(ctx context.Context, fields Fields) error {
			f.sends.Add(1)
			if gated {
				select {
				case <-f.gate:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return deliver(ctx, fields)
		}, WithTimeout(2*time.Second))
	})

	h := NewHandler(registry, svc, validation.New(), discardLogger(), time.Minute, false)
	r := chi.NewRouter()
	r.Post("/contact", h.Submit)
	r.Get("/contact/status", h.Status)
	r.Get("/admin/contacts", h.AdminList)
	f.router = r
	return f
}

func postContact(t *testing.T, router http.Handler, target string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func TestSubmitAndWait(t *testing.T) {
	f := newHandlerFixture(t, false)

	rec := postContact(t, f.router, "/contact?wait=true", validFields, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, 1, snap.Attempts)
	assert.True(t, ValidSessionID(sessionCookie(t, rec).Value))
	assert.Equal(t, 1, f.repo.count())
}

func TestSubmitValidation(t *testing.T) {
	f := newHandlerFixture(t, false)

	rec := postContact(t, f.router, "/contact", Fields{Name: " ", Email: "not-an-email", Subject: "<script>", Message: ""}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation error", body.Error)
	assert.Equal(t, map[string]string{
		"Name":    "notblank",
		"Email":   "email",
		"Subject": "nohtml",
		"Message": "notblank",
	}, body.Details)
	assert.Equal(t, int32(0), f.sends.Load())
}

func TestSubmitInvalidJSON(t *testing.T) {
	f := newHandlerFixture(t, false)
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString(`{"name":`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitTwiceInFlightSendsOnce(t *testing.T) {
	f := newHandlerFixture(t, true)

	first := postContact(t, f.router, "/contact", validFields, nil)
	require.Equal(t, http.StatusAccepted, first.Code)
	assert.Equal(t, StatusSubmitting, decodeSnapshot(t, first).Status)
	cookie := sessionCookie(t, first)

	second := postContact(t, f.router, "/contact", validFields, cookie)
	require.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, StatusSubmitting, decodeSnapshot(t, second).Status)

	// a different session is independent
	other := postContact(t, f.router, "/contact", validFields, nil)
	require.Equal(t, http.StatusAccepted, other.Code)

	close(f.gate)

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/contact/status", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return decodeSnapshot(t, rec).Status == StatusSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(2), f.sends.Load(), "one send per session")
}

func TestStatusForUnknownSessionIsIdle(t *testing.T) {
	f := newHandlerFixture(t, false)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusIdle, decodeSnapshot(t, rec).Status)
	assert.Empty(t, rec.Result().Cookies(), "status never creates a session")
	assert.NotContains(t, rec.Body.String(), "updated_at", "idle snapshot has no timestamp")

	req := httptest.NewRequest(http.MethodGet, "/contact/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, StatusIdle, decodeSnapshot(t, rec).Status)
}

func TestAdminList(t *testing.T) {
	f := newHandlerFixture(t, false)
	for i := 0; i < 3; i++ {
		rec := postContact(t, f.router, "/contact?wait=true", validFields, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/contacts?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []Message `json:"items"`
		Total int64     `json:"total"`
		Limit int64     `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, int64(3), body.Total)
	assert.Equal(t, int64(2), body.Limit)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/contacts?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
