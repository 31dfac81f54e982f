package vkmusic

import (
	"context"
	"fmt"
	"time"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// SearchTracks searches audios by text.
func (s *ServiceImpl) SearchTracks(ctx context.Context, query string, count, offset int64) ([]*vk.Track, error) {
	result, err := s.vkClient.SearchAudios(ctx, &vk.SearchAudiosRequest{
		Query:  query,
		Count:  count,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return result.Items, nil
}

// UserTracks lists the audios of a user or community.
// A private audio list surfaces as vk.ErrAccessDenied.
func (s *ServiceImpl) UserTracks(ctx context.Context, ownerID, count, offset int64) ([]*vk.Track, error) {
	result, err := s.vkClient.GetAudios(ctx, &vk.GetAudiosRequest{
		OwnerID: ownerID,
		Count:   count,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audios of %d: %w", ownerID, err)
	}

	return result.Items, nil
}

// PopularTracks retrieves the service-wide popular chart.
func (s *ServiceImpl) PopularTracks(ctx context.Context, count, offset int64) ([]*vk.Track, error) {
	tracks, err := s.vkClient.GetPopularAudios(ctx, count, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular audios: %w", err)
	}

	return tracks, nil
}

// RecommendedTracks retrieves recommended audios for a user.
// A zero userID asks for recommendations for the token owner.
func (s *ServiceImpl) RecommendedTracks(ctx context.Context, userID, count, offset int64) ([]*vk.Track, error) {
	result, err := s.vkClient.GetRecommendations(ctx, &vk.GetRecommendationsRequest{
		UserID: userID,
		Count:  count,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	return result.Items, nil
}

// PrintTracks prints a numbered track listing.
func (s *ServiceImpl) PrintTracks(ctx context.Context, tracks []*vk.Track) {
	if len(tracks) == 0 {
		logger.Info(ctx, "No tracks found")

		return
	}

	for i, track := range tracks {
		title := track.Title
		if track.Subtitle != "" {
			title += " (" + track.Subtitle + ")"
		}

		logger.Infof(ctx, "%3d. %s - %s [%s]", i+1, track.Artist, title, formatTrackDuration(track.Duration))
	}

	logger.Infof(ctx, "%d track(s)", len(tracks))
}

// formatTrackDuration formats a track duration in seconds as m:ss or h:mm:ss.
func formatTrackDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}

	return fmt.Sprintf("%d:%02d", minutes, secs)
}
