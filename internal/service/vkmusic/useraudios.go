package vkmusic

import (
	"context"
	"errors"
	"strconv"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// downloadUserAudios downloads the full audio list of a user or community.
// Tracks go directly into the output directory, like individually requested tracks.
func (s *ServiceImpl) downloadUserAudios(ctx context.Context, item *DownloadItem) {
	count, err := s.vkClient.GetAudioCount(ctx, item.OwnerID)
	if err == nil {
		logger.Infof(ctx, "Owner %d has %d audios", item.OwnerID, count)
	}

	tracks, err := s.fetchAllAudios(ctx, &vk.GetAudiosRequest{OwnerID: item.OwnerID})
	if err != nil {
		if errors.Is(err, vk.ErrAccessDenied) {
			logger.Errorf(ctx, "Audio list of owner %d is private", item.OwnerID)
		} else {
			logger.Errorf(ctx, "Failed to list audios of owner %d: %v", item.OwnerID, err)
		}

		s.recordError(&ErrorContext{
			Category:  DownloadCategoryUserAudios,
			ItemID:    strconv.FormatInt(item.OwnerID, 10),
			ItemTitle: "Audios of " + strconv.FormatInt(item.OwnerID, 10),
			ItemURL:   item.URL,
			Phase:     "fetching track list",
		}, err)

		return
	}

	if len(tracks) == 0 {
		logger.Warnf(ctx, "Owner %d has no audios", item.OwnerID)

		return
	}

	s.downloadTracks(ctx, &downloadTracksMetadata{
		category:        DownloadCategoryUserAudios,
		tracks:          tracks,
		audioCollection: nil,
	})
}
