package app

import (
	"context"

	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// ExecuteSearchCommand searches tracks by text and prints the matches.
func ExecuteSearchCommand(ctx context.Context, cfg *config.Config, query string) {
	s := newMusicService(ctx, cfg)

	tracks, err := s.SearchTracks(ctx, query, cfg.ResultsCount, cfg.ResultsOffset)
	if err != nil {
		logger.Fatalf(ctx, "Search failed: %v", err)
	}

	s.PrintTracks(ctx, tracks)
}

// ExecutePopularCommand prints the service-wide popular chart.
func ExecutePopularCommand(ctx context.Context, cfg *config.Config) {
	s := newMusicService(ctx, cfg)

	tracks, err := s.PopularTracks(ctx, cfg.ResultsCount, cfg.ResultsOffset)
	if err != nil {
		logger.Fatalf(ctx, "Failed to get popular tracks: %v", err)
	}

	s.PrintTracks(ctx, tracks)
}

// ExecuteRecommendCommand prints recommended tracks.
// A zero userID asks for recommendations for the token owner.
func ExecuteRecommendCommand(ctx context.Context, cfg *config.Config, userID int64) {
	s := newMusicService(ctx, cfg)

	tracks, err := s.RecommendedTracks(ctx, userID, cfg.ResultsCount, cfg.ResultsOffset)
	if err != nil {
		logger.Fatalf(ctx, "Failed to get recommendations: %v", err)
	}

	s.PrintTracks(ctx, tracks)
}

// ExecuteListCommand prints the audios of a user or community.
func ExecuteListCommand(ctx context.Context, cfg *config.Config, ownerID int64) {
	s := newMusicService(ctx, cfg)

	tracks, err := s.UserTracks(ctx, ownerID, cfg.ResultsCount, cfg.ResultsOffset)
	if err != nil {
		logger.Fatalf(ctx, "Failed to list audios of %d: %v", ownerID, err)
	}

	s.PrintTracks(ctx, tracks)
}
