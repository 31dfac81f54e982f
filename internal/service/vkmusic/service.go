package vkmusic

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/constants"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/utils"
)

// Service provides methods for downloading and browsing VK audio content.
type Service interface {
	// DownloadURLs orchestrates the full download pipeline, from URL processing to file creation.
	DownloadURLs(ctx context.Context, urls []string)
	// SearchTracks searches audios by text.
	SearchTracks(ctx context.Context, query string, count, offset int64) ([]*vk.Track, error)
	// UserTracks lists the audios of a user or community.
	UserTracks(ctx context.Context, ownerID, count, offset int64) ([]*vk.Track, error)
	// PopularTracks retrieves the service-wide popular chart.
	PopularTracks(ctx context.Context, count, offset int64) ([]*vk.Track, error)
	// RecommendedTracks retrieves recommended audios for a user.
	RecommendedTracks(ctx context.Context, userID, count, offset int64) ([]*vk.Track, error)
	// PrintTracks prints a numbered track listing.
	PrintTracks(ctx context.Context, tracks []*vk.Track)
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the audio download and browsing service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// vkClient is the client for interacting with the VK API.
	vkClient vk.Client
	// urlProcessor handles URL parsing and categorization.
	urlProcessor URLProcessor
	// templateManager generates filenames and folder names.
	templateManager TemplateManager
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// audioCollections stores download collections indexed by item.
	audioCollections map[ShortDownloadItem]*audioCollection
	// audioCollectionsMutex protects concurrent access to audioCollections.
	audioCollectionsMutex *sync.Mutex
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	vkClient vk.Client,
	urlProcessor URLProcessor,
	templateManager TemplateManager,
	tagProcessor TagProcessor,
) Service {
	return &ServiceImpl{
		cfg:                   cfg,
		vkClient:              vkClient,
		urlProcessor:          urlProcessor,
		templateManager:       templateManager,
		tagProcessor:          tagProcessor,
		audioCollections:      make(map[ShortDownloadItem]*audioCollection),
		audioCollectionsMutex: new(sync.Mutex),
		stats:                 new(DownloadStatistics),
		statsMutex:            new(sync.Mutex),
	}
}

// DownloadURLs orchestrates the full download pipeline, from URL processing to file creation.
func (s *ServiceImpl) DownloadURLs(ctx context.Context, urls []string) {
	// Record start time for statistics.
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	// Ensure the output directory exists.
	err := os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions)
	if err != nil {
		logger.Errorf(ctx, "Failed to create output path: %v", err)
		return
	}

	// Verify the token before proceeding: a stale token fails every call downstream.
	if err = s.checkAccount(ctx); err != nil {
		logger.Errorf(ctx, "%v", err)
		return
	}

	// Extract and categorize download items from the provided URLs.
	downloadItemsByCategories, err := s.urlProcessor.ExtractDownloadItems(ctx, urls)
	if err != nil {
		logger.Errorf(ctx, "Failed to extract items to download: %v", err)
		return
	}

	logger.Info(ctx, "Starting download process")

	// Process playlists and full audio lists first to maintain organizational structure.
	collectionItems := s.urlProcessor.DeduplicateDownloadItems(
		append(downloadItemsByCategories.Playlists, downloadItemsByCategories.UserAudios...))
	if len(collectionItems) > 0 {
		s.downloadCollectionItems(ctx, collectionItems)
	}

	// Process individual tracks after collections.
	if len(downloadItemsByCategories.Tracks) > 0 {
		s.downloadTrackItems(ctx, downloadItemsByCategories.Tracks)
	}

	logger.Info(ctx, "Download process completed")

	// Record end time for statistics.
	s.statsMutex.Lock()
	s.stats.EndTime = time.Now()
	s.statsMutex.Unlock()
}

// downloadCollectionItems handles the download of playlists and full user audio lists.
func (s *ServiceImpl) downloadCollectionItems(ctx context.Context, items []*DownloadItem) {
	logger.Info(ctx, "Downloading playlists and audio lists")

	itemsCount := len(items)

	// Iterate through each item and download based on its category.
	for index, item := range items {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		//nolint:exhaustive // All meaningful cases are explicitly handled; default covers unknown values.
		switch item.Category {
		case DownloadCategoryPlaylist:
			logger.Infof(ctx, "Downloading item: %v (%d / %d)", item, index+1, itemsCount)
			s.downloadPlaylist(ctx, item)
		case DownloadCategoryUserAudios:
			logger.Infof(ctx, "Downloading item: %v (%d / %d)", item, index+1, itemsCount)
			s.downloadUserAudios(ctx, item)
		default:
			logger.Errorf(ctx, "Unknown URL category: %d", item.Category)
		}
	}
}

// downloadTrackItems handles the download of individual tracks.
func (s *ServiceImpl) downloadTrackItems(ctx context.Context, items []*DownloadItem) {
	logger.Info(ctx, "Downloading tracks")

	// Resolve track metadata by full identifiers.
	fullIDs := utils.Map(items, func(item *DownloadItem) string {
		return (&vk.Track{ID: item.ItemID, OwnerID: item.OwnerID}).FullID()
	})

	tracks, err := s.vkClient.GetAudiosByID(ctx, fullIDs)
	if err != nil {
		logger.Errorf(ctx, "Failed to get track metadata: %v", err)

		return
	}

	if len(tracks) < len(items) {
		logger.Warnf(ctx, "Only %d of %d requested tracks are available", len(tracks), len(items))
	}

	// Prepare metadata for downloading the tracks.
	metadata := &downloadTracksMetadata{
		category:        DownloadCategoryTrack,
		tracks:          tracks,
		audioCollection: nil,
	}

	// Download the tracks.
	s.downloadTracks(ctx, metadata)
}
