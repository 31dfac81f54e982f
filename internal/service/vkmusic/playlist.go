package vkmusic

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/constants"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/utils"
)

// audioPageSize is the page size used when walking a playlist or audio list.
const audioPageSize = 1000

func (s *ServiceImpl) downloadPlaylist(ctx context.Context, item *DownloadItem) {
	// Fetch metadata for the playlist.
	playlist, err := s.vkClient.GetPlaylistByID(ctx, item.OwnerID, item.ItemID, item.AccessKey)
	if err != nil {
		logger.Errorf(ctx, "Failed to get metadata for playlist %d_%d: %v", item.OwnerID, item.ItemID, err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryPlaylist,
			ItemID:    fmt.Sprintf("%d_%d", item.OwnerID, item.ItemID),
			ItemTitle: "Unknown Playlist",
			ItemURL:   item.URL,
			Phase:     "fetching metadata",
		}, err)

		return
	}

	// Fetch the playlist's track list.
	tracks, err := s.fetchAllAudios(ctx, &vk.GetAudiosRequest{
		OwnerID:   item.OwnerID,
		AlbumID:   item.ItemID,
		AccessKey: item.AccessKey,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to list tracks of playlist '%s': %v", playlist.Title, err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryPlaylist,
			ItemID:    playlist.FullID(),
			ItemTitle: playlist.Title,
			ItemURL:   item.URL,
			Phase:     "fetching track list",
		}, err)

		return
	}

	if len(tracks) == 0 {
		logger.Warnf(ctx, "Playlist '%s' contains no tracks", playlist.Title)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryPlaylist,
			ItemID:    playlist.FullID(),
			ItemTitle: playlist.Title,
			ItemURL:   item.URL,
			Phase:     "fetching track list",
		}, ErrEmptyPlaylist)

		return
	}

	// Register the playlist in the audio container (create folder, download cover).
	audioCollection := s.addPlaylistToAudioContainer(ctx, item, playlist, tracks)
	if audioCollection == nil {
		return
	}

	// Download all tracks in the playlist.
	s.downloadTracks(ctx, &downloadTracksMetadata{
		category:        DownloadCategoryPlaylist,
		tracks:          tracks,
		audioCollection: audioCollection,
	})
}

// fetchAllAudios pages through audio.get until the full listing is collected.
func (s *ServiceImpl) fetchAllAudios(ctx context.Context, request *vk.GetAudiosRequest) ([]*vk.Track, error) {
	var tracks []*vk.Track

	for offset := request.Offset; ; {
		page, err := s.vkClient.GetAudios(ctx, &vk.GetAudiosRequest{
			OwnerID:   request.OwnerID,
			AlbumID:   request.AlbumID,
			AccessKey: request.AccessKey,
			Count:     audioPageSize,
			Offset:    offset,
		})
		if err != nil {
			return nil, err
		}

		if len(page.Items) == 0 {
			break
		}

		tracks = append(tracks, page.Items...)
		offset += int64(len(page.Items))

		if offset >= page.Count {
			break
		}
	}

	return tracks, nil
}

func (s *ServiceImpl) addPlaylistToAudioContainer(
	ctx context.Context,
	item *DownloadItem,
	playlist *vk.Playlist,
	tracks []*vk.Track,
) *audioCollection {
	logger.Infof(ctx, "Downloading playlist: %s", playlist.Title)

	// Generate tags for the playlist.
	playlistTags := s.fillPlaylistTags(playlist, int64(len(tracks)))

	// Generate a sanitized folder name for the playlist and truncate if necessary.
	playlistFolderName := s.templateManager.GetPlaylistFolderName(ctx, playlistTags)
	playlistFolderName = s.truncateFolderName(ctx, "Playlist", utils.SanitizeFilename(playlistFolderName))
	playlistPath := filepath.Join(s.cfg.OutputPath, playlistFolderName)

	// Create the playlist folder.
	err := os.MkdirAll(playlistPath, constants.DefaultFolderPermissions)
	if err != nil {
		logger.Errorf(ctx, "Failed to create playlist folder '%s': %v", playlistPath, err)

		return nil
	}

	// Download the playlist cover art.
	coverPath, coverTempPath := s.downloadPlaylistCover(ctx, playlist.CoverURL(), playlistPath)

	// Lock to ensure thread-safe access to the audio collections.
	s.audioCollectionsMutex.Lock()
	defer s.audioCollectionsMutex.Unlock()

	// Create and register the audio collection for the playlist.
	audioCollection := &audioCollection{
		category:      DownloadCategoryPlaylist,
		title:         playlist.Title,
		tags:          playlistTags,
		tracksPath:    playlistPath,
		coverPath:     coverPath,
		coverTempPath: coverTempPath,
		tracks:        tracks,
		tracksCount:   int64(len(tracks)),
	}

	s.audioCollections[item.GetShortVersion()] = audioCollection

	return audioCollection
}

// downloadPlaylistCover downloads the playlist cover art into a temporary
// UUID-based file so that concurrent playlist downloads don't clash.
// It returns the path the tracks should reference and the temp path to
// finalize after the last track.
func (s *ServiceImpl) downloadPlaylistCover(ctx context.Context, coverURL, playlistPath string) (string, string) {
	// Trim and validate the cover art URL.
	coverURL = strings.TrimSpace(coverURL)
	if coverURL == "" {
		return "", ""
	}

	// Determine the file extension for the cover art.
	coverExtension := path.Ext(strings.SplitN(coverURL, "?", 2)[0])
	if coverExtension == "" {
		coverExtension = extensionJPG
	}

	// Check if the final destination already exists.
	finalCoverFilename := utils.SetFileExtension(defaultCoverBasename, coverExtension, false)
	finalCoverPath := filepath.Join(playlistPath, finalCoverFilename)

	if !s.cfg.ReplaceCovers {
		if _, err := os.Stat(finalCoverPath); err == nil {
			logger.Info(ctx, "Playlist cover already exists, skipping download")
			s.incrementCoverSkipped()

			return finalCoverPath, ""
		}
	}

	// Generate a UUID-based temp filename.
	tempCoverFilename := defaultCoverBasename + "_" + uuid.New().String() + coverExtension
	tempCoverPath := filepath.Join(playlistPath, tempCoverFilename)

	// Download the cover art.
	skipped, err := s.downloadAndSaveFile(ctx, coverURL, tempCoverPath, s.cfg.ReplaceCovers)
	if err != nil {
		logger.Errorf(ctx, "Failed to download playlist cover: %v", err)

		return "", ""
	}

	if skipped {
		s.incrementCoverSkipped()
	} else {
		s.incrementCoverDownloaded()
		logger.Info(ctx, "Successfully downloaded playlist cover")
	}

	return tempCoverPath, tempCoverPath
}

func (s *ServiceImpl) fillPlaylistTags(playlist *vk.Playlist, tracksCount int64) map[string]string {
	return map[string]string{
		"type":               "playlist",
		"playlistID":         playlist.FullID(),
		"playlistTitle":      playlist.Title,
		"playlistOwnerID":    strconv.FormatInt(playlist.OwnerID, 10),
		"playlistTrackCount": strconv.FormatInt(tracksCount, 10),
	}
}
