package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podscribe/internal/api/middleware"
	"podscribe/internal/api/v1/services"
	"podscribe/internal/feed"
	"podscribe/internal/match"
	"podscribe/internal/pipeline"
	"podscribe/internal/spotify"
	"podscribe/internal/stage"
)

type fakeRunner struct {
	result *pipeline.Result
	err    error
	gotURL string
}

func (f *fakeRunner) Run(_ context.Context, rawURL string, _ *pipeline.Reporter) (*pipeline.Result, error) {
	f.gotURL = rawURL
	return f.result, f.err
}

type fakeSearcher struct {
	summaries []spotify.EpisodeSummary
	err       error
	gotQuery  string
	gotLimit  int
}

func (f *fakeSearcher) SearchEpisodes(_ context.Context, query string, limit int) ([]spotify.EpisodeSummary, error) {
	f.gotQuery = query
	f.gotLimit = limit
	return f.summaries, f.err
}

func newTestRouter(runner services.PipelineRunner, searcher services.EpisodeSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	transcriptions := NewTranscriptionHandler(services.NewTranscriptionService(runner))
	search := NewSearchHandler(services.NewSearchService(searcher))
	router.POST("/api/v1/transcriptions", transcriptions.Create)
	router.GET("/api/v1/episodes/search", search.Search)
	return router
}

func TestCreateTranscription(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		EpisodeID: "4rOoJ6Egrf8K2IrywzwOMk",
		Metadata: spotify.EpisodeMetadata{
			ShowName:     "Example Show",
			EpisodeTitle: "Episode 12: Testing",
			DurationSec:  600,
		},
		Match: match.Result{
			Entry:   feed.Entry{Title: "Episode 12: Testing"},
			Score:   1.0,
			FeedURL: "https://feeds.example.com/example-show.xml",
		},
		Transcript: "Hello world.",
	}}
	router := newTestRouter(runner, &fakeSearcher{})

	body := `{"url":"https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk", runner.gotURL)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello world.", resp["transcript"])
	assert.Equal(t, "Example Show", resp["show_name"])
	assert.Equal(t, "Episode 12 Testing.txt", resp["suggested_filename"])
}

func TestCreateTranscription_MissingURL(t *testing.T) {
	router := newTestRouter(&fakeRunner{}, &fakeSearcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTranscription_NoMatchMapsTo422(t *testing.T) {
	runner := &fakeRunner{err: stage.NewError(stage.KindNoMatch, stage.Match, "best entry scored below similarity threshold")}
	router := newTestRouter(runner, &fakeSearcher{})

	body := `{"url":"https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_match", resp["kind"])
	assert.Equal(t, "match", resp["stage"])
	assert.NotEmpty(t, resp["request_id"])
}

func TestSearchEpisodes(t *testing.T) {
	searcher := &fakeSearcher{summaries: []spotify.EpisodeSummary{
		{ID: "4rOoJ6Egrf8K2IrywzwOMk", Title: "Episode 12: Testing", ShowName: "Example Show", DurationSec: 600},
	}}
	router := newTestRouter(&fakeRunner{}, searcher)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/episodes/search?q=testing&limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "testing", searcher.gotQuery)
	assert.Equal(t, 5, searcher.gotLimit)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	episodes := resp["episodes"].([]interface{})
	require.Len(t, episodes, 1)
	first := episodes[0].(map[string]interface{})
	assert.Equal(t, "https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk", first["url"])
}

func TestSearchEpisodes_MissingQuery(t *testing.T) {
	router := newTestRouter(&fakeRunner{}, &fakeSearcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/episodes/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
