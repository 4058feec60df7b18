package pipeline

import (
	"net/url"
	"path"
	"strings"

	"podscribe/internal/match"
	"podscribe/internal/spotify"
)

// Result is the final artifact of a successful run. The transcript itself is
// not persisted anywhere by the pipeline; storage is the caller's concern.
type Result struct {
	EpisodeID  string
	Metadata   spotify.EpisodeMetadata
	Match      match.Result
	Transcript string
}

// filename characters that are unsafe across platforms
const unsafeFilenameChars = `\/*?:"<>|`

// SuggestedFilename derives a download filename from the episode title.
func (r *Result) SuggestedFilename() string {
	title := strings.Map(func(c rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, c) {
			return -1
		}
		return c
	}, r.Metadata.EpisodeTitle)
	title = strings.TrimSpace(title)
	if title == "" {
		title = r.EpisodeID
	}
	return title + ".txt"
}

// audioFilename derives a model-facing filename from the audio URL so the
// container format survives the upload.
func audioFilename(audioURL string) string {
	u, err := url.Parse(audioURL)
	if err != nil {
		return "audio.mp3"
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" || !strings.Contains(base, ".") {
		return "audio.mp3"
	}
	return base
}
