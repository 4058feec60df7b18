package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"podscribe/internal/stage"
)

const (
	defaultSearchURL     = "https://itunes.apple.com/search"
	defaultMaxCandidates = 5
	defaultFetchTimeout  = 15 * time.Second
)

// Entry is one episode record inside a syndication feed. Published is nil and
// DurationSec is 0 when the feed omits the optional elements.
type Entry struct {
	Title       string
	AudioURL    string
	Published   *time.Time
	DurationSec int
}

// Candidate is one parsed feed, in the directory's own relevance order.
// Entries keep the order published by the source feed; that order is
// meaningful for recency tie-breaking downstream.
type Candidate struct {
	FeedURL string
	Entries []Entry
}

// Locator finds syndication feeds for a show name through the iTunes Search
// API and parses each candidate feed document.
type Locator struct {
	http          *http.Client
	parser        *gofeed.Parser
	searchURL     string
	maxCandidates int
	logger        *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithSearchURL overrides the directory endpoint, used by tests.
func WithSearchURL(u string) Option {
	return func(l *Locator) { l.searchURL = u }
}

// WithMaxCandidates caps how many directory results are fetched.
func WithMaxCandidates(n int) Option {
	return func(l *Locator) {
		if n > 0 {
			l.maxCandidates = n
		}
	}
}

// WithTimeout sets the per-fetch timeout for directory and feed requests.
func WithTimeout(d time.Duration) Option {
	return func(l *Locator) {
		if d > 0 {
			l.http.Timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocator returns a Locator with the default directory endpoint and cap.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		http:          &http.Client{Timeout: defaultFetchTimeout},
		searchURL:     defaultSearchURL,
		maxCandidates: defaultMaxCandidates,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.parser = gofeed.NewParser()
	l.parser.Client = l.http
	return l
}

// candidateResult is the tagged outcome of fetching one directory row:
// either a parsed candidate or a skip reason. Individually broken feeds are
// folded into skips instead of failing the whole stage.
type candidateResult struct {
	candidate *Candidate
	skip      string
}

// Locate searches the directory by show name, fetches up to the configured
// number of candidate feeds, and returns the ones that parse, preserving the
// directory's rank order. It fails only when no candidate yields entries.
func (l *Locator) Locate(ctx context.Context, showName string) ([]Candidate, error) {
	rows, err := l.searchDirectory(ctx, showName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, stage.NewError(stage.KindNoFeedFound, stage.Locate, "directory returned no results").
			WithDetail("show_name", showName)
	}

	if len(rows) > l.maxCandidates {
		rows = rows[:l.maxCandidates]
	}

	candidates := make([]Candidate, 0, len(rows))
	skips := make([]string, 0)
	for _, row := range rows {
		result := l.fetchCandidate(ctx, row)
		if result.candidate != nil {
			candidates = append(candidates, *result.candidate)
			continue
		}
		l.logger.Debug("skipping feed candidate",
			"show_name", showName,
			"collection", row.CollectionName,
			"reason", result.skip)
		skips = append(skips, result.skip)
	}

	if len(candidates) == 0 {
		return nil, stage.NewError(stage.KindNoFeedFound, stage.Locate, "every feed candidate failed to parse").
			WithDetail("show_name", showName).
			WithDetail("skipped", strings.Join(skips, "; "))
	}
	return candidates, nil
}

type directoryRow struct {
	CollectionName    string `json:"collectionName"`
	FeedURL           string `json:"feedUrl"`
	CollectionViewURL string `json:"collectionViewUrl"`
}

func (l *Locator) searchDirectory(ctx context.Context, showName string) ([]directoryRow, error) {
	endpoint := fmt.Sprintf("%s?term=%s&entity=podcast&limit=%d",
		l.searchURL, url.QueryEscape(showName), l.maxCandidates)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, stage.WrapError(stage.KindNoFeedFound, stage.Locate, "building directory request", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, stage.WrapError(stage.KindNoFeedFound, stage.Locate, "directory search failed", err).
			WithDetail("show_name", showName)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, stage.NewError(stage.KindNoFeedFound, stage.Locate, "directory search failed").
			WithDetail("show_name", showName).
			WithDetail("status", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stage.WrapError(stage.KindNoFeedFound, stage.Locate, "reading directory response", err)
	}
	var payload struct {
		Results []directoryRow `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, stage.WrapError(stage.KindNoFeedFound, stage.Locate, "decoding directory response", err)
	}
	return payload.Results, nil
}

func (l *Locator) fetchCandidate(ctx context.Context, row directoryRow) candidateResult {
	feedURL := row.FeedURL
	if feedURL == "" && row.CollectionViewURL != "" {
		discovered, err := l.discoverFeedLink(ctx, row.CollectionViewURL)
		if err != nil {
			return candidateResult{skip: fmt.Sprintf("%s: no feed URL (%v)", row.CollectionName, err)}
		}
		feedURL = discovered
	}
	if feedURL == "" {
		return candidateResult{skip: fmt.Sprintf("%s: directory row has no feed URL", row.CollectionName)}
	}

	parsed, err := l.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return candidateResult{skip: fmt.Sprintf("%s: %v", feedURL, err)}
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry, ok := entryFromItem(item)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return candidateResult{skip: fmt.Sprintf("%s: feed has no playable entries", feedURL)}
	}
	return candidateResult{candidate: &Candidate{FeedURL: feedURL, Entries: entries}}
}

// entryFromItem converts a parsed feed item, tolerating missing optional
// fields. Items without an audio enclosure are unplayable and dropped.
func entryFromItem(item *gofeed.Item) (Entry, bool) {
	if item == nil || item.Title == "" {
		return Entry{}, false
	}
	var audioURL string
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			audioURL = enc.URL
			break
		}
	}
	if audioURL == "" {
		return Entry{}, false
	}

	entry := Entry{
		Title:     item.Title,
		AudioURL:  audioURL,
		Published: item.PublishedParsed,
	}
	if item.ITunesExt != nil {
		entry.DurationSec = parseDuration(item.ITunesExt.Duration)
	}
	return entry, true
}

// parseDuration handles the two shapes of <itunes:duration>: plain seconds
// and colon-separated [HH:]MM:SS. Returns 0 for anything unparseable.
func parseDuration(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if !strings.Contains(raw, ":") {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			return 0
		}
		return secs
	}
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
