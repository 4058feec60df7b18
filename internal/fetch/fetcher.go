package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"podscribe/internal/stage"
)

const (
	defaultMaxBytes = int64(512 << 20) // 512 MiB
	defaultTimeout  = 10 * time.Minute
)

// Audio is a downloaded binary audio payload.
type Audio struct {
	Data        []byte
	ContentType string
}

// Policy bounds a single download. Zero values take the defaults.
type Policy struct {
	MaxBytes int64
	Timeout  time.Duration
}

// Fetcher downloads audio resources within size and time bounds. The
// Content-Length header is only an early rejection hint; the enforced bound
// is the actual bytes received.
type Fetcher struct {
	http   *http.Client
	policy Policy
}

// NewFetcher returns a Fetcher with defaults filled in.
func NewFetcher(policy Policy) *Fetcher {
	if policy.MaxBytes <= 0 {
		policy.MaxBytes = defaultMaxBytes
	}
	if policy.Timeout <= 0 {
		policy.Timeout = defaultTimeout
	}
	return &Fetcher{
		// the per-download deadline comes from the request context, not
		// from the client, so cancellation and timeout are distinguishable
		http:   &http.Client{},
		policy: policy,
	}
}

// Fetch downloads audioURL into memory, aborting when the transfer exceeds
// the byte or time bound.
func (f *Fetcher) Fetch(ctx context.Context, audioURL string) (*Audio, error) {
	ctx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, stage.WrapError(stage.KindDownload, stage.Fetch, "building request", err).
			WithDetail("audio_url", audioURL)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, f.transportError(ctx, audioURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// gated/premium redirects surface here as non-success statuses
		return nil, stage.NewError(stage.KindDownload, stage.Fetch, "unexpected response status").
			WithDetail("audio_url", audioURL).
			WithDetail("status", resp.Status)
	}

	if resp.ContentLength > f.policy.MaxBytes {
		return nil, f.tooLarge(audioURL, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.policy.MaxBytes+1))
	if err != nil {
		return nil, f.transportError(ctx, audioURL, err)
	}
	if int64(len(data)) > f.policy.MaxBytes {
		return nil, f.tooLarge(audioURL, int64(len(data)))
	}

	return &Audio{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (f *Fetcher) tooLarge(audioURL string, size int64) error {
	return stage.NewError(stage.KindResourceTooLarge, stage.Fetch, "audio resource exceeds size bound").
		WithDetail("audio_url", audioURL).
		WithDetail("size", fmt.Sprintf("%d", size)).
		WithDetail("max_bytes", fmt.Sprintf("%d", f.policy.MaxBytes))
}

func (f *Fetcher) transportError(ctx context.Context, audioURL string, err error) error {
	var netErr net.Error
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	if timedOut {
		return stage.WrapError(stage.KindTimeout, stage.Fetch, "download exceeded time bound", err).
			WithDetail("audio_url", audioURL).
			WithDetail("timeout", f.policy.Timeout.String())
	}
	return stage.WrapError(stage.KindDownload, stage.Fetch, "download failed", err).
		WithDetail("audio_url", audioURL)
}
