package transcribe

import (
	"context"
)

// Segment is one timestamped span of recognized speech. Start and End are
// offsets into the audio in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Request carries one audio payload to a transcription model. Language is an
// optional hint ("en", "de", ...); Filename tells the model the container
// format.
type Request struct {
	Audio    []byte
	Filename string
	Language string
}

// Transcriber converts raw audio into an ordered stream of timestamped
// segments. Implementations call emit once per segment, in chronological
// order, and may chunk long audio internally. emit must not be called after
// Transcribe returns.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request, emit func(Segment)) error
}
