package msgraph_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/worktime/internal/msgraph"
)

func TestGetCalendarViewFollowsPages(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `outlook.timezone="Europe/Berlin"`, r.Header.Get("Prefer"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]any{{"id": "b", "subject": "Second"}},
			})
			return
		}
		assert.Equal(t, "/me/calendarView", r.URL.Path)
		assert.Equal(t, "2026-02-27T00:00:00Z", r.URL.Query().Get("startDateTime"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value":           []map[string]any{{"id": "a", "subject": "First", "showAs": "busy"}},
			"@odata.nextLink": srv.URL + "/me/calendarView?page=2",
		})
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 1), "Europe/Berlin")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "busy", events[0].ShowAs)
	assert.Equal(t, "Second", events[1].Subject)
}

func TestGetCalendarViewError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	_, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTokenStoreRoundTrip(t *testing.T) {
	s := msgraph.NewTokenStore(filepath.Join(t.TempDir(), "auth", "tokens.json"), zap.NewNop())

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, tok, "no token before first save")

	want := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.AccessToken)
	assert.Equal(t, "def", got.RefreshToken)
	assert.True(t, got.Expiry.Equal(want.Expiry))
}
