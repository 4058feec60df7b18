package dto

// EpisodeResult is one row of an episode search response.
type EpisodeResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ShowName    string `json:"show_name"`
	DurationSec int    `json:"duration_sec"`
	URL         string `json:"url"`
}

// SearchResponse wraps the search rows.
type SearchResponse struct {
	Query    string          `json:"query"`
	Episodes []EpisodeResult `json:"episodes"`
}
