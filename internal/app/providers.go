// Package app assembles the pipeline from configuration via wire.
package app

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"podscribe/internal/config"
	"podscribe/internal/feed"
	"podscribe/internal/fetch"
	"podscribe/internal/match"
	"podscribe/internal/metrics"
	"podscribe/internal/pipeline"
	"podscribe/internal/spotify"
	"podscribe/internal/transcribe"
	"podscribe/internal/transcribe/whisper"
)

func provideSpotifyClient(creds *config.Credentials, policy config.Policy) (*spotify.Client, error) {
	return spotify.NewClient(spotify.Config{
		ClientID:     creds.SpotifyClientID,
		ClientSecret: creds.SpotifyClientSecret,
		Timeout:      policy.LookupTimeout(),
	})
}

func provideLocator(policy config.Policy, logger *slog.Logger) *feed.Locator {
	return feed.NewLocator(
		feed.WithMaxCandidates(policy.MaxFeedCandidates),
		feed.WithTimeout(policy.LookupTimeout()),
		feed.WithLogger(logger),
	)
}

func provideMatcher(policy config.Policy) *match.Matcher {
	return match.NewMatcher(match.Policy{
		Threshold:         policy.SimilarityThreshold,
		DurationTolerance: policy.DurationTolerance(),
	})
}

func provideFetcher(policy config.Policy) *fetch.Fetcher {
	return fetch.NewFetcher(fetch.Policy{
		MaxBytes: policy.MaxAudioBytes,
		Timeout:  policy.DownloadTimeout(),
	})
}

func provideTranscriber(creds *config.Credentials, policy config.Policy) transcribe.Transcriber {
	return whisper.NewRemoteTranscriber(whisper.Config{
		APIKey: creds.OpenAIAPIKey,
		Model:  policy.WhisperModel,
	})
}

func provideOrchestrator(transcriber transcribe.Transcriber) *transcribe.Orchestrator {
	return transcribe.NewOrchestrator(transcriber)
}

func providePipeline(
	client *spotify.Client,
	locator *feed.Locator,
	matcher *match.Matcher,
	fetcher *fetch.Fetcher,
	orchestrator *transcribe.Orchestrator,
	policy config.Policy,
	logger *slog.Logger,
) *pipeline.Pipeline {
	return pipeline.New(client, locator, matcher, fetcher, orchestrator,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics.NewRecorder(prometheus.DefaultRegisterer)),
		pipeline.WithLanguage(policy.Language),
	)
}
