package spotify

import (
	"regexp"
	"strings"

	"podscribe/internal/stage"
)

// EpisodeRef is a canonical episode identifier extracted from a shared URL.
type EpisodeRef struct {
	ID string
}

// Spotify episode IDs are fixed-length base62 strings.
var episodeIDRegexp = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// episode/<id> appears after an optional locale segment (/intl-de/...) and in
// the /embed/ player form. The URI form spotify:episode:<id> has no path.
var episodePathRegexp = regexp.MustCompile(`(?:^|/)(?:embed/)?episode/([0-9A-Za-z]{22})(?:[/?#]|$)`)

// ExtractEpisodeID parses the heterogeneous URL shapes Spotify uses to
// reference an episode and returns the stable identifier. It is pure: no
// network access, same output for the same input.
func ExtractEpisodeID(raw string) (EpisodeRef, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EpisodeRef{}, stage.NewError(stage.KindInvalidURL, stage.Extract, "empty URL").
			WithDetail("url", raw)
	}

	// spotify:episode:<id> URI form
	if rest, ok := strings.CutPrefix(trimmed, "spotify:episode:"); ok {
		if episodeIDRegexp.MatchString(rest) {
			return EpisodeRef{ID: rest}, nil
		}
		return EpisodeRef{}, stage.NewError(stage.KindInvalidURL, stage.Extract, "malformed episode URI").
			WithDetail("url", raw)
	}

	if m := episodePathRegexp.FindStringSubmatch(trimmed); m != nil {
		return EpisodeRef{ID: m[1]}, nil
	}

	return EpisodeRef{}, stage.NewError(stage.KindInvalidURL, stage.Extract, "no episode identifier in URL").
		WithDetail("url", raw)
}

// EpisodeURL builds the canonical share URL for an episode identifier.
func EpisodeURL(id string) string {
	return "https://open.spotify.com/episode/" + id
}
