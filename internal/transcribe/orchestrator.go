package transcribe

import (
	"context"
	"errors"
	"strings"

	"podscribe/internal/stage"
)

// Orchestrator runs a Transcriber over one audio payload and assembles the
// final transcript. Delivery is all-or-nothing: segments accumulated before
// a model failure are discarded.
type Orchestrator struct {
	transcriber Transcriber
}

func NewOrchestrator(transcriber Transcriber) *Orchestrator {
	return &Orchestrator{transcriber: transcriber}
}

// Run transcribes req and returns the assembled transcript. totalDurationSec
// is the known audio duration used to derive progress fractions; 0 means
// unknown, in which case progress only reports completion. onProgress may be
// nil; when set it receives a monotonically non-decreasing fraction in [0,1]
// that reaches exactly 1.0 on success and is never fed after a failure.
func (o *Orchestrator) Run(ctx context.Context, req Request, totalDurationSec int, onProgress func(float64)) (string, error) {
	var texts []string
	last := 0.0

	err := o.transcriber.Transcribe(ctx, req, func(seg Segment) {
		texts = append(texts, seg.Text)
		if onProgress == nil || totalDurationSec <= 0 {
			return
		}
		frac := seg.End / float64(totalDurationSec)
		if frac > 1 {
			frac = 1
		}
		if frac > last {
			last = frac
			onProgress(frac)
		}
	})
	if err != nil {
		var se *stage.Error
		if errors.As(err, &se) {
			return "", err
		}
		return "", stage.WrapError(stage.KindTranscription, stage.Transcribe, "model failed", err)
	}

	if onProgress != nil {
		onProgress(1.0)
	}

	// single separating space between segments; spacing inside each
	// segment's text is preserved as the model produced it
	return strings.Join(texts, " "), nil
}
