// Package services adapts the pipeline and lookup clients to the API's DTOs.
package services

import (
	"context"

	"podscribe/internal/api/v1/dto"
	"podscribe/internal/pipeline"
)

// PipelineRunner is the slice of the pipeline the API needs.
type PipelineRunner interface {
	Run(ctx context.Context, rawURL string, reporter *pipeline.Reporter) (*pipeline.Result, error)
}

// TranscriptionService runs the pipeline for API requests.
type TranscriptionService struct {
	pipeline PipelineRunner
}

func NewTranscriptionService(runner PipelineRunner) *TranscriptionService {
	return &TranscriptionService{pipeline: runner}
}

// Transcribe resolves and transcribes one episode URL. Progress events are
// discarded; the API reports only the final outcome.
func (s *TranscriptionService) Transcribe(ctx context.Context, rawURL string) (*dto.TranscribeResponse, error) {
	result, err := s.pipeline.Run(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}

	return &dto.TranscribeResponse{
		EpisodeID:         result.EpisodeID,
		ShowName:          result.Metadata.ShowName,
		EpisodeTitle:      result.Metadata.EpisodeTitle,
		FeedURL:           result.Match.FeedURL,
		MatchedTitle:      result.Match.Entry.Title,
		MatchScore:        result.Match.Score,
		Transcript:        result.Transcript,
		SuggestedFilename: result.SuggestedFilename(),
	}, nil
}
