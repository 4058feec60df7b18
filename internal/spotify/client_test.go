package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podscribe/internal/stage"
)

func newTokenServer(t *testing.T, rejectCredentials bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rejectCredentials {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
}

func newTestClient(t *testing.T, tokenURL, apiURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     tokenURL,
		APIBaseURL:   apiURL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{ClientID: "id"})
	assert.Error(t, err)

	_, err = NewClient(Config{ClientSecret: "secret"})
	assert.Error(t, err)
}

func TestEpisodeMetadata(t *testing.T) {
	tokenSrv := newTokenServer(t, false)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/episodes/4rOoJ6Egrf8K2IrywzwOMk", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":        "Episode 12: Testing",
			"duration_ms": 3600000,
			"show":        map[string]interface{}{"name": "Example Show"},
			"explicit":    false, // extra fields must be ignored
			"languages":   []string{"en"},
		})
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	meta, err := client.EpisodeMetadata(context.Background(), EpisodeRef{ID: "4rOoJ6Egrf8K2IrywzwOMk"})
	require.NoError(t, err)
	assert.Equal(t, "Example Show", meta.ShowName)
	assert.Equal(t, "Episode 12: Testing", meta.EpisodeTitle)
	assert.Equal(t, 3600, meta.DurationSec)
}

func TestEpisodeMetadata_AuthRejected(t *testing.T) {
	tokenSrv := newTokenServer(t, true)
	defer tokenSrv.Close()

	client := newTestClient(t, tokenSrv.URL, "http://unused.invalid")

	_, err := client.EpisodeMetadata(context.Background(), EpisodeRef{ID: "4rOoJ6Egrf8K2IrywzwOMk"})
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindAuth))
}

func TestEpisodeMetadata_NotFound(t *testing.T) {
	tokenSrv := newTokenServer(t, false)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":404}}`, http.StatusNotFound)
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	_, err := client.EpisodeMetadata(context.Background(), EpisodeRef{ID: "4rOoJ6Egrf8K2IrywzwOMk"})
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindNotFound))
	assert.Equal(t, stage.Resolve, stage.StageOf(err))
}

func TestEpisodeMetadata_ServerError(t *testing.T) {
	tokenSrv := newTokenServer(t, false)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	_, err := client.EpisodeMetadata(context.Background(), EpisodeRef{ID: "4rOoJ6Egrf8K2IrywzwOMk"})
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindTransient))
}

func TestEpisodeMetadata_TokenCached(t *testing.T) {
	tokenCalls := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	}))
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":        "x",
			"duration_ms": 1000,
			"show":        map[string]interface{}{"name": "y"},
		})
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)
	for i := 0; i < 3; i++ {
		_, err := client.EpisodeMetadata(context.Background(), EpisodeRef{ID: "4rOoJ6Egrf8K2IrywzwOMk"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenCalls)
}

func TestSearchEpisodes(t *testing.T) {
	tokenSrv := newTokenServer(t, false)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "episode", r.URL.Query().Get("type"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"episodes": map[string]interface{}{
					"items": []map[string]interface{}{
						{"id": "aaaaaaaaaaaaaaaaaaaaaa"},
						{"id": "bbbbbbbbbbbbbbbbbbbbbb"},
					},
				},
			})
		case "/episodes":
			assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaa,bbbbbbbbbbbbbbbbbbbbbb", r.URL.Query().Get("ids"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"episodes": []interface{}{
					map[string]interface{}{
						"id":          "aaaaaaaaaaaaaaaaaaaaaa",
						"name":        "Lex Fridman #400",
						"duration_ms": 7200000,
						"show":        map[string]interface{}{"name": "Lex Fridman Podcast"},
					},
					nil, // unavailable in market
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer apiSrv.Close()

	client := newTestClient(t, tokenSrv.URL, apiSrv.URL)

	results, err := client.SearchEpisodes(context.Background(), "Lex Fridman #400", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaa", results[0].ID)
	assert.Equal(t, "Lex Fridman Podcast", results[0].ShowName)
	assert.Equal(t, 7200, results[0].DurationSec)
}

func TestSearchEpisodes_EmptyQuery(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid", "http://unused.invalid")
	results, err := client.SearchEpisodes(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
