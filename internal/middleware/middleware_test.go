package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"artshare/internal/session"
)

type fakeSessions map[string]session.State

func (f fakeSessions) Get(_ context.Context, id string) session.State {
	return f[id]
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestSessions_IssuesCookie(t *testing.T) {
	var seen string
	h := Sessions(CookieOptions{Name: "sid"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, seen, cookies[0].Value)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}

func TestSessions_ReusesValidCookie(t *testing.T) {
	id := uuid.NewString()
	var seen string
	h := Sessions(CookieOptions{Name: "sid"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, id, seen)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessions_ReplacesMalformedCookie(t *testing.T) {
	var seen string
	h := Sessions(CookieOptions{Name: "sid"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "../../etc", seen)
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestRouteGuard(t *testing.T) {
	store := fakeSessions{"auth": {Token: "tok"}}

	tests := []struct {
		name        string
		requireAuth bool
		sid         string
		method      string
		target      string
		referer     string
		wantStatus  int
		wantLoc     string
	}{
		{"anonymous on protected page", true, "anon", http.MethodGet, "/favorites", "", http.StatusSeeOther, "/login?from=%2Ffavorites"},
		{"authenticated on protected page", true, "auth", http.MethodGet, "/favorites", "", http.StatusOK, ""},
		{"authenticated on guest page", false, "auth", http.MethodGet, "/login", "", http.StatusSeeOther, "/gallery"},
		{"anonymous on guest page", false, "anon", http.MethodGet, "/login", "", http.StatusOK, ""},
		{"anonymous form post returns to referring page", true, "anon", http.MethodPost, "/artwork/3/like", "http://example.com/artwork/3", http.StatusSeeOther, "/login?from=%2Fartwork%2F3"},
		{"anonymous form post without referer", true, "anon", http.MethodPost, "/logout", "", http.StatusSeeOther, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			req = req.WithContext(WithSessionID(req.Context(), tt.sid))
			rec := httptest.NewRecorder()

			RouteGuard(store, tt.requireAuth)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestLogging_RecordsStatusAndRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var id string
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/gallery", fields["path"])
	assert.Equal(t, id, fields["request_id"])
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, id)
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Recover(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}

func TestChain_LastIsOutermost(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler, mark("inner"), mark("outer")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
