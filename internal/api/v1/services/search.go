package services

import (
	"context"

	"github.com/samber/lo"

	"podscribe/internal/api/v1/dto"
	"podscribe/internal/spotify"
)

// EpisodeSearcher is the slice of the catalog client the API needs.
type EpisodeSearcher interface {
	SearchEpisodes(ctx context.Context, query string, limit int) ([]spotify.EpisodeSummary, error)
}

// SearchService answers episode search requests.
type SearchService struct {
	searcher EpisodeSearcher
}

func NewSearchService(searcher EpisodeSearcher) *SearchService {
	return &SearchService{searcher: searcher}
}

// Search finds episodes matching query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	summaries, err := s.searcher.SearchEpisodes(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{
		Query: query,
		Episodes: lo.Map(summaries, func(s spotify.EpisodeSummary, _ int) dto.EpisodeResult {
			return dto.EpisodeResult{
				ID:          s.ID,
				Title:       s.Title,
				ShowName:    s.ShowName,
				DurationSec: s.DurationSec,
				URL:         spotify.EpisodeURL(s.ID),
			}
		}),
	}, nil
}
