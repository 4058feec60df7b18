//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"

	"podscribe/internal/config"
	"podscribe/internal/pipeline"
	"podscribe/internal/spotify"
)

// InitializePipeline assembles the five pipeline stages from credentials and
// policy.
func InitializePipeline(creds *config.Credentials, policy config.Policy, logger *slog.Logger) (*pipeline.Pipeline, error) {
	wire.Build(
		provideSpotifyClient,
		provideLocator,
		provideMatcher,
		provideFetcher,
		provideTranscriber,
		provideOrchestrator,
		providePipeline,
	)
	return nil, nil
}

// InitializeSpotifyClient builds just the catalog client, for commands that
// search without transcribing.
func InitializeSpotifyClient(creds *config.Credentials, policy config.Policy) (*spotify.Client, error) {
	wire.Build(provideSpotifyClient)
	return nil, nil
}
