// Package pipeline chains the five resolution-and-transcription stages:
// extract an episode identifier, resolve its metadata, locate the show's
// syndication feed, match the episode entry, fetch the audio, transcribe.
// Each stage consumes the previous stage's immutable result; the first
// failure aborts the run with a stage-tagged error.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"podscribe/internal/feed"
	"podscribe/internal/fetch"
	"podscribe/internal/match"
	"podscribe/internal/metrics"
	"podscribe/internal/spotify"
	"podscribe/internal/stage"
	"podscribe/internal/transcribe"
)

// MetadataResolver turns an episode identifier into episode metadata.
type MetadataResolver interface {
	EpisodeMetadata(ctx context.Context, ref spotify.EpisodeRef) (*spotify.EpisodeMetadata, error)
}

// FeedLocator finds and parses candidate syndication feeds for a show name.
type FeedLocator interface {
	Locate(ctx context.Context, showName string) ([]feed.Candidate, error)
}

// EpisodeMatcher selects the feed entry matching the resolved episode.
type EpisodeMatcher interface {
	Match(episodeTitle string, refDurationSec int, candidates []feed.Candidate) (*match.Result, error)
}

// AudioFetcher downloads the matched entry's audio resource.
type AudioFetcher interface {
	Fetch(ctx context.Context, audioURL string) (*fetch.Audio, error)
}

// TranscriptionRunner assembles a transcript from one audio payload.
type TranscriptionRunner interface {
	Run(ctx context.Context, req transcribe.Request, totalDurationSec int, onProgress func(float64)) (string, error)
}

// Overall progress weights per stage, matching the user-facing milestones of
// the original tool: the download spans 0.40-0.70 and transcription the rest.
const (
	progressExtract         = 0.10
	progressResolve         = 0.20
	progressLocate          = 0.30
	progressFetchStart      = 0.40
	progressFetchDone       = 0.70
	progressTranscribeStart = 0.70
)

// Pipeline owns one request end-to-end. It is safe to reuse across requests;
// each Run is independent and shares no mutable state with other runs.
type Pipeline struct {
	resolver     MetadataResolver
	locator      FeedLocator
	matcher      EpisodeMatcher
	fetcher      AudioFetcher
	orchestrator TranscriptionRunner
	language     string
	logger       *slog.Logger
	metrics      *metrics.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = recorder }
}

// WithLanguage sets the default language hint passed to the model.
func WithLanguage(lang string) Option {
	return func(p *Pipeline) { p.language = lang }
}

// New assembles a pipeline from its five stage implementations.
func New(
	resolver MetadataResolver,
	locator FeedLocator,
	matcher EpisodeMatcher,
	fetcher AudioFetcher,
	orchestrator TranscriptionRunner,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		resolver:     resolver,
		locator:      locator,
		matcher:      matcher,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run resolves rawURL into a transcript. reporter may be nil; when set it
// receives stage milestones and is closed before Run returns. Cancellation is
// checked at every stage boundary.
func (p *Pipeline) Run(ctx context.Context, rawURL string, reporter *Reporter) (*Result, error) {
	defer reporter.Close()

	result, err := p.run(ctx, rawURL, reporter)
	p.metrics.Request(err == nil)
	if err != nil {
		if kind := stage.KindOf(err); kind != "" {
			p.metrics.StageFailure(string(stage.StageOf(err)), string(kind))
		}
		p.logger.Error("pipeline failed",
			"url", rawURL,
			"stage", string(stage.StageOf(err)),
			"kind", string(stage.KindOf(err)),
			"error", err)
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, rawURL string, reporter *Reporter) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter.Publish(stage.Extract, "Extracting episode information...", progressExtract)

	ref, err := spotify.ExtractEpisodeID(rawURL)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter.Publish(stage.Resolve, "Resolving episode metadata...", progressResolve)

	started := time.Now()
	meta, err := p.resolver.EpisodeMetadata(ctx, ref)
	p.metrics.ObserveStage(string(stage.Resolve), time.Since(started))
	if err != nil {
		return nil, err
	}
	p.logger.Info("episode resolved",
		"episode_id", ref.ID,
		"show", meta.ShowName,
		"title", meta.EpisodeTitle)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter.Publish(stage.Locate, "Finding podcast RSS feed...", progressLocate)

	started = time.Now()
	candidates, err := p.locator.Locate(ctx, meta.ShowName)
	p.metrics.ObserveStage(string(stage.Locate), time.Since(started))
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = time.Now()
	matched, err := p.matcher.Match(meta.EpisodeTitle, meta.DurationSec, candidates)
	p.metrics.ObserveStage(string(stage.Match), time.Since(started))
	if err != nil {
		return nil, err
	}
	p.logger.Info("episode matched",
		"entry_title", matched.Entry.Title,
		"score", matched.Score,
		"feed_url", matched.FeedURL)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter.Publish(stage.Fetch, "Downloading audio file...", progressFetchStart)

	started = time.Now()
	audio, err := p.fetcher.Fetch(ctx, matched.Entry.AudioURL)
	p.metrics.ObserveStage(string(stage.Fetch), time.Since(started))
	if err != nil {
		return nil, err
	}
	reporter.Publish(stage.Fetch, "Audio downloaded", progressFetchDone)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter.Publish(stage.Transcribe, "Transcribing audio (this may take a while)...", progressTranscribeStart)

	totalDuration := meta.DurationSec
	if matched.Entry.DurationSec > 0 {
		totalDuration = matched.Entry.DurationSec
	}

	started = time.Now()
	transcript, err := p.orchestrator.Run(ctx, transcribe.Request{
		Audio:    audio.Data,
		Filename: audioFilename(matched.Entry.AudioURL),
		Language: p.language,
	}, totalDuration, func(frac float64) {
		overall := progressTranscribeStart + frac*(1-progressTranscribeStart)
		reporter.Publish(stage.Transcribe, "Transcribing...", overall)
	})
	p.metrics.ObserveStage(string(stage.Transcribe), time.Since(started))
	if err != nil {
		return nil, err
	}

	reporter.Publish(stage.Transcribe, "Transcription complete", 1.0)
	return &Result{
		EpisodeID:  ref.ID,
		Metadata:   *meta,
		Match:      *matched,
		Transcript: transcript,
	}, nil
}
