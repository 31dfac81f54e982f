package vkmusic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/constants"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/utils"
)

// hlsPlaylistMarker identifies stream URLs that point at an HLS manifest
// instead of a downloadable MP3 file.
const hlsPlaylistMarker = "index.m3u8"

// downloadTracksMetadata contains everything needed for downloading a batch of tracks.
type downloadTracksMetadata struct {
	// category indicates the type of download (track, playlist, user audios).
	category DownloadCategory
	// tracks is the ordered list of tracks to download.
	tracks []*vk.Track
	// audioCollection is the playlist the tracks belong to, nil for standalone tracks.
	audioCollection *audioCollection
}

// downloadTrackRequest contains parameters for downloading a single track.
type downloadTrackRequest struct {
	// trackIndex is the position of the track in the download queue, starting at 1.
	trackIndex int64
	// track is the track being downloaded.
	track *vk.Track
	// metadata contains batch-level download context.
	metadata *downloadTracksMetadata
}

func (s *ServiceImpl) downloadTracks(ctx context.Context, metadata *downloadTracksMetadata) {
	maxConcurrent := s.cfg.MaxConcurrentDownloads

	// Sequential download (default behavior when maxConcurrent == 1).
	if maxConcurrent <= 1 {
		s.downloadTracksSequentially(ctx, metadata)

		return
	}

	// Concurrent downloads with worker pool pattern.
	s.downloadTracksConcurrently(ctx, metadata, maxConcurrent)
}

// executeTrackDownload creates a download request and executes the track download.
// This is the common logic shared between sequential and concurrent downloads.
func (s *ServiceImpl) executeTrackDownload(
	ctx context.Context,
	trackIndex int,
	track *vk.Track,
	metadata *downloadTracksMetadata,
) {
	request := &downloadTrackRequest{
		// Track numbers start at 1 for user-facing numbering.
		trackIndex: int64(trackIndex) + 1,
		track:      track,
		metadata:   metadata,
	}

	s.downloadTrack(ctx, request)

	// Add a random pause between downloads to avoid rate limiting.
	utils.RandomPause(0, s.cfg.ParsedMaxDownloadPause)
}

// downloadTracksSequentially downloads tracks one by one.
func (s *ServiceImpl) downloadTracksSequentially(ctx context.Context, metadata *downloadTracksMetadata) {
	for i, track := range metadata.tracks {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.executeTrackDownload(ctx, i, track, metadata)
	}
}

// downloadTracksConcurrently downloads tracks using a worker pool for concurrent execution.
func (s *ServiceImpl) downloadTracksConcurrently(
	ctx context.Context,
	metadata *downloadTracksMetadata,
	maxConcurrent int64,
) {
	// Create a semaphore channel to limit concurrent downloads.
	semaphore := make(chan struct{}, maxConcurrent)

	var waitGroup sync.WaitGroup

	// Process each track in a separate goroutine.
	for index, track := range metadata.tracks {
		// Check if context was canceled (CTRL+C pressed) - stop queueing new downloads.
		select {
		case <-ctx.Done():
			goto waitForCompletion
		default:
		}

		waitGroup.Add(1)

		go func(trackIndex int, currentTrack *vk.Track) {
			defer waitGroup.Done()

			// Acquire semaphore slot (blocks if all workers are busy).
			semaphore <- struct{}{}

			defer func() {
				// Release semaphore slot when done.
				<-semaphore
			}()

			// Execute the track download with common logic.
			s.executeTrackDownload(ctx, trackIndex, currentTrack, metadata)
		}(index, track)
	}

waitForCompletion:
	// Wait for all in-flight downloads to complete.
	waitGroup.Wait()
}

//nolint:funlen,gocognit,cyclop // Function orchestrates the download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadTrack(ctx context.Context, req *downloadTrackRequest) {
	var (
		track      = req.track
		metadata   = req.metadata
		collection = metadata.audioCollection
	)

	errCtx := &ErrorContext{
		Category:  DownloadCategoryTrack,
		ItemID:    track.FullID(),
		ItemTitle: track.Artist + " - " + track.Title,
	}
	if collection != nil {
		errCtx.ParentCategory = collection.category
		errCtx.ParentID = collection.tags["playlistID"]
		errCtx.ParentTitle = collection.title

		// Every exit path counts as a finished attempt so the collection
		// cover can be finalized after the last one.
		defer s.noteCollectionTrackDone(ctx, collection)
	}

	// Blocked or removed audios come back without a stream URL.
	streamURL := strings.TrimSpace(track.URL)
	if streamURL == "" {
		logger.Warnf(ctx, "Track '%s - %s' has no stream URL, skipping", track.Artist, track.Title)
		s.incrementTrackSkipped(SkipReasonNoURL)

		errCtx.Phase = "checking stream URL"
		s.recordError(errCtx, ErrTrackHasNoURL)

		return
	}

	// HLS manifests cannot be saved as MP3 files.
	if strings.Contains(streamURL, hlsPlaylistMarker) {
		logger.Warnf(ctx, "Track '%s - %s' is only available as a stream, skipping", track.Artist, track.Title)
		s.incrementTrackSkipped(SkipReasonStream)

		errCtx.Phase = "checking stream URL"
		s.recordError(errCtx, ErrTrackIsStream)

		return
	}

	// Determine where the track goes and how it is named.
	isPlaylist := metadata.category == DownloadCategoryPlaylist

	tracksPath := s.cfg.OutputPath
	tracksCount := int64(len(metadata.tracks))

	if collection != nil {
		tracksPath = collection.tracksPath
		tracksCount = collection.tracksCount
	}

	trackTags := s.fillTrackTagsForTemplating(req.trackIndex, track, tracksCount, collection)
	trackFilename := s.templateManager.GetTrackFilename(ctx, isPlaylist, trackTags)
	trackFilename = utils.SetFileExtension(utils.SanitizeFilename(trackFilename), extensionMP3, true)
	trackPath := filepath.Join(tracksPath, trackFilename)

	// Download and save the track.
	logger.Infof(
		ctx,
		"Downloading track %d of %d: %s - %s",
		req.trackIndex,
		tracksCount,
		track.Artist,
		track.Title)

	result, err := s.downloadAndSaveTrack(ctx, streamURL, trackPath)
	if err != nil {
		// Don't log context cancellation - it's expected when user presses CTRL+C.
		if !errors.Is(err, context.Canceled) {
			logger.Errorf(ctx, "Failed to download track: %v", err)
		}

		s.incrementTrackFailed()

		errCtx.Phase = "downloading file"
		s.recordError(errCtx, err)

		return
	}

	if result.IsExist {
		s.incrementTrackSkipped(SkipReasonExists)

		return
	}

	s.incrementTrackDownloaded(result.BytesDownloaded)

	// Write metadata tags to the .part file BEFORE renaming for atomic operation.
	writeTagsRequest := &WriteTagsRequest{
		TrackPath: result.TempPath,
		TrackTags: trackTags,
	}

	// The playlist cover doubles as the album art of every track in it.
	if collection != nil && collection.coverPath != "" {
		writeTagsRequest.CoverPath = collection.coverPath
		writeTagsRequest.IsCoverEmbeddedToTrackTags = true
	}

	err = s.tagProcessor.WriteTags(ctx, writeTagsRequest)
	if err != nil {
		logger.Errorf(ctx, "Failed to write track tags: %v", err)

		errCtx.Phase = "writing metadata tags"
		s.recordError(errCtx, err)

		// Clean up .part file on tagging failure.
		_ = os.Remove(result.TempPath)

		return
	}

	// Atomically rename the .part file to its final name.
	// At this point, the file has complete audio data AND metadata tags.
	if err = os.Rename(result.TempPath, trackPath); err != nil {
		logger.Errorf(ctx, "Failed to finalize track file: %v", err)

		errCtx.Phase = "renaming temporary file"
		s.recordError(errCtx, err)

		// Clean up .part file on rename failure.
		_ = os.Remove(result.TempPath)

		return
	}
}

func (s *ServiceImpl) fillTrackTagsForTemplating(
	trackNumber int64,
	track *vk.Track,
	tracksCount int64,
	collection *audioCollection,
) map[string]string {
	result := make(map[string]string)

	// Apply collection tags first so track-specific tags take precedence.
	if collection != nil {
		maps.Copy(result, collection.tags)

		result["collectionTitle"] = collection.title
	}

	result["trackArtist"] = track.Artist
	result["trackTitle"] = track.Title
	result["trackSubtitle"] = track.Subtitle
	result["trackID"] = track.FullID()
	result["trackNumber"] = strconv.FormatInt(trackNumber, 10)
	result["trackNumberPad"] = fmt.Sprintf("%02d", trackNumber)
	result["trackCount"] = strconv.FormatInt(tracksCount, 10)

	return result
}

//nolint:cyclop,funlen // Function orchestrates the download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadAndSaveTrack(
	ctx context.Context,
	trackURL string,
	trackPath string,
) (*DownloadTrackResult, error) {
	// Check if the final file already exists.
	if !s.cfg.ReplaceTracks {
		if _, err := os.Stat(trackPath); err == nil {
			logger.Infof(ctx, "Track '%s' already exists, skipping download", trackPath)

			return &DownloadTrackResult{
				IsExist:         true,
				TempPath:        "",
				BytesDownloaded: 0,
			}, nil
		}
	}

	// Fetch the track.
	fetchResult, fetchErr := s.vkClient.FetchTrack(ctx, trackURL)
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch track: %w", fetchErr)
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	// Download to a temporary .part file first for atomic operation.
	tempFilePath := trackPath + ".part"

	// Always overwrite .part files (they indicate incomplete downloads).
	f, openErr := os.OpenFile(filepath.Clean(tempFilePath), overwriteFileOptions, constants.DefaultFilePermissions)
	if openErr != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", openErr)
	}

	// Track whether download succeeded.
	// If not, we'll clean up the .part file on function exit.
	var downloadSucceeded bool

	defer func() {
		// Ensure file is closed before cleanup.
		closeErr := f.Close()

		// Clean up .part file if download failed.
		if !downloadSucceeded {
			// Small delay to ensure file handle is released (Windows needs this).
			time.Sleep(10 * time.Millisecond)

			if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
				// Log warning but don't fail - this is best-effort cleanup.
				logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
					tempFilePath, removeErr, closeErr)
			}
		}
	}()

	// Initialize progress tracker.
	// Progress bars are disabled when downloading concurrently to avoid terminal output conflicts.
	var writer io.Writer

	if logger.Level() <= zap.InfoLevel && s.cfg.MaxConcurrentDownloads <= 1 {
		bar := progressbar.DefaultBytes(
			fetchResult.TotalBytes,
			"Downloading",
		)

		writer = io.MultiWriter(f, bar)
	} else {
		writer = f
	}

	// Download logic.
	var (
		bytesWritten int64
		err          error
	)

	if s.cfg.ParsedDownloadSpeedLimit == 0 {
		bytesWritten, err = io.Copy(writer, fetchResult.Body)
	} else {
		for {
			var n int64

			n, err = io.CopyN(writer, fetchResult.Body, s.cfg.ParsedDownloadSpeedLimit)
			bytesWritten += n

			if errors.Is(err, io.EOF) {
				err = nil

				break
			}

			if err != nil {
				break
			}

			// Throttle to respect speed limit.
			time.Sleep(time.Second)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	// Verify that we downloaded the expected number of bytes.
	// Content length may be unknown when the CDN responds with chunked encoding.
	if fetchResult.TotalBytes >= 0 && bytesWritten != fetchResult.TotalBytes {
		return nil, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			fetchResult.TotalBytes,
		)
	}

	// Mark download as successful to prevent cleanup by defer.
	// The .part file will be renamed to final name by the caller after tags are written.
	downloadSucceeded = true

	// Return the temp file path for the caller to rename after writing tags.
	return &DownloadTrackResult{
		IsExist:         false,
		TempPath:        tempFilePath,
		BytesDownloaded: bytesWritten,
	}, nil
}

// noteCollectionTrackDone marks one track of the collection as finished.
// The cover keeps its temporary name until every track has completed, so a
// fast worker cannot rename it while others still embed from the temp path.
func (s *ServiceImpl) noteCollectionTrackDone(ctx context.Context, collection *audioCollection) {
	if collection.completedTracks.Add(1) != collection.tracksCount {
		return
	}

	s.finalizePlaylistCoverArt(ctx, collection)
}

// finalizePlaylistCoverArt renames the temporary UUID-based cover file
// to its final name after the last track of the playlist.
func (s *ServiceImpl) finalizePlaylistCoverArt(ctx context.Context, collection *audioCollection) {
	// Nothing to finalize when the cover was skipped or failed to download.
	if collection.coverTempPath == "" {
		return
	}

	coverExt := filepath.Ext(collection.coverTempPath)
	if coverExt == "" {
		coverExt = extensionJPG
	}

	coverFilename := utils.SetFileExtension(defaultCoverBasename, coverExt, false)
	newCoverPath := filepath.Join(collection.tracksPath, coverFilename)

	// Check if the temporary cover file exists.
	originalCoverStat, err := os.Stat(collection.coverTempPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Errorf(ctx, "Playlist cover file not found: '%s'", collection.coverTempPath)
		} else {
			logger.Errorf(ctx, "Unable to retrieve playlist cover file info: %v", err)
		}

		return
	}

	// Check if the final cover file already exists and is the same as the original.
	existingCoverStat, err := os.Stat(newCoverPath)
	if err == nil && os.SameFile(originalCoverStat, existingCoverStat) {
		// No need to rename if the file is already correctly named.
		return
	}

	// Rename the cover file to its final location.
	if err = os.Rename(collection.coverTempPath, newCoverPath); err != nil {
		logger.Errorf(
			ctx,
			"Failed to rename playlist cover from '%s' to '%s': %v",
			collection.coverTempPath,
			newCoverPath, err)
	}
}
