// Package dto holds the API's request and response shapes.
package dto

// TranscribeRequest asks for one episode URL to be transcribed.
type TranscribeRequest struct {
	URL string `json:"url" binding:"required"`
}

// TranscribeResponse is the finished transcript with the resolution trail
// that produced it.
type TranscribeResponse struct {
	EpisodeID         string  `json:"episode_id"`
	ShowName          string  `json:"show_name"`
	EpisodeTitle      string  `json:"episode_title"`
	FeedURL           string  `json:"feed_url"`
	MatchedTitle      string  `json:"matched_title"`
	MatchScore        float64 `json:"match_score"`
	Transcript        string  `json:"transcript"`
	SuggestedFilename string  `json:"suggested_filename"`
}
