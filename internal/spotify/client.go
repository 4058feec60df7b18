package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"podscribe/internal/stage"
)

const (
	defaultTokenURL   = "https://accounts.spotify.com/api/token"
	defaultAPIBaseURL = "https://api.spotify.com/v1"

	defaultTimeout = 15 * time.Second
)

// EpisodeMetadata is the resolved description of one episode. DurationSec is
// 0 when the service did not report a duration.
type EpisodeMetadata struct {
	ShowName     string
	EpisodeTitle string
	DurationSec  int
}

// EpisodeSummary is one row of an episode search result.
type EpisodeSummary struct {
	ID          string
	Title       string
	ShowName    string
	DurationSec int
}

// Config holds the caller-supplied credentials and endpoints. ClientID and
// ClientSecret are required; everything else has a default. TokenURL and
// APIBaseURL exist so tests can point the client at a mock server.
type Config struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	Timeout      time.Duration
	TokenURL     string
	APIBaseURL   string
}

// Client resolves episode identifiers against the Spotify Web API using the
// client-credentials flow. It performs exactly one lookup per call and never
// retries; retry policy belongs to the caller.
type Client struct {
	cfg  Config
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient validates the configuration and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("spotify config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// EpisodeMetadata looks up a single episode by identifier.
func (c *Client) EpisodeMetadata(ctx context.Context, ref EpisodeRef) (*EpisodeMetadata, error) {
	var payload struct {
		Name       string `json:"name"`
		DurationMs int    `json:"duration_ms"`
		Show       struct {
			Name string `json:"name"`
		} `json:"show"`
	}

	endpoint := fmt.Sprintf("%s/episodes/%s?market=US", c.cfg.APIBaseURL, url.PathEscape(ref.ID))
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		if se, ok := err.(*stage.Error); ok {
			se.WithDetail("episode_id", ref.ID)
		}
		return nil, err
	}

	return &EpisodeMetadata{
		ShowName:     payload.Show.Name,
		EpisodeTitle: payload.Name,
		DurationSec:  payload.DurationMs / 1000,
	}, nil
}

// SearchEpisodes performs a free-text episode search. The search endpoint
// returns simplified episode objects without show information, so the IDs are
// re-fetched as full objects in a second call, the same way the original
// service behaves.
func (c *Client) SearchEpisodes(ctx context.Context, query string, limit int) ([]EpisodeSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var search struct {
		Episodes struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"episodes"`
	}
	endpoint := fmt.Sprintf("%s/search?q=%s&type=episode&limit=%d", c.cfg.APIBaseURL, url.QueryEscape(query), limit)
	if err := c.getJSON(ctx, endpoint, &search); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(search.Episodes.Items))
	for _, item := range search.Episodes.Items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var full struct {
		Episodes []struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			DurationMs int    `json:"duration_ms"`
			Show       struct {
				Name string `json:"name"`
			} `json:"show"`
		} `json:"episodes"`
	}
	endpoint = fmt.Sprintf("%s/episodes?ids=%s", c.cfg.APIBaseURL, strings.Join(ids, ","))
	if err := c.getJSON(ctx, endpoint, &full); err != nil {
		return nil, err
	}

	summaries := make([]EpisodeSummary, 0, len(full.Episodes))
	for _, ep := range full.Episodes {
		// the service returns null entries for episodes that are not
		// available in the request market
		if ep.ID == "" {
			continue
		}
		summaries = append(summaries, EpisodeSummary{
			ID:          ep.ID,
			Title:       ep.Name,
			ShowName:    ep.Show.Name,
			DurationSec: ep.DurationMs / 1000,
		})
	}
	return summaries, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return stage.WrapError(stage.KindTransient, stage.Resolve, "building request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return stage.WrapError(stage.KindTransient, stage.Resolve, "metadata lookup failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return stage.NewError(stage.KindAuth, stage.Resolve, "credentials rejected by metadata API").
			WithDetail("status", resp.Status)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// 400 is what the API answers for a well-shaped but unknown ID
		return stage.NewError(stage.KindNotFound, stage.Resolve, "episode unknown to metadata API").
			WithDetail("status", resp.Status)
	default:
		return stage.NewError(stage.KindTransient, stage.Resolve, "metadata API unavailable").
			WithDetail("status", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return stage.WrapError(stage.KindTransient, stage.Resolve, "reading response", err)
	}
	// undocumented extra fields are ignored by the partial struct decode
	if err := json.Unmarshal(body, out); err != nil {
		return stage.WrapError(stage.KindTransient, stage.Resolve, "decoding response", err)
	}
	return nil
}

// accessToken returns a cached client-credentials token, refreshing it when
// it is within a minute of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExp) > time.Minute {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", stage.WrapError(stage.KindTransient, stage.Resolve, "building token request", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", stage.WrapError(stage.KindTransient, stage.Resolve, "token request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusBadRequest {
		return "", stage.NewError(stage.KindAuth, stage.Resolve, "credentials rejected by accounts endpoint").
			WithDetail("status", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", stage.NewError(stage.KindTransient, stage.Resolve, "accounts endpoint unavailable").
			WithDetail("status", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", stage.WrapError(stage.KindTransient, stage.Resolve, "decoding token response", err)
	}
	if payload.AccessToken == "" {
		return "", stage.NewError(stage.KindAuth, stage.Resolve, "accounts endpoint returned no token")
	}

	c.token = payload.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return c.token, nil
}
