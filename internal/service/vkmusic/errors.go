package vkmusic

import (
	"context"
	"errors"
)

// Common errors for the service layer.
var (
	// ErrIncompleteDownload indicates that the downloaded file size doesn't match the expected size.
	ErrIncompleteDownload = errors.New("incomplete download")
	// ErrTrackHasNoURL indicates that the API returned no stream URL for a track.
	ErrTrackHasNoURL = errors.New("track has no stream URL")
	// ErrTrackIsStream indicates that only an HLS stream is available for a track.
	ErrTrackIsStream = errors.New("track is only available as an HLS stream")
	// ErrEmptyPlaylist indicates that a playlist contains no tracks.
	ErrEmptyPlaylist = errors.New("playlist contains no tracks")
)

// ErrorContext provides context information for download errors.
type ErrorContext struct {
	// Category is the type of item that failed (track, playlist, user audios).
	Category DownloadCategory
	// ItemID is the identifier of the item that failed.
	ItemID string
	// ItemTitle is the human-readable title of the item.
	ItemTitle string
	// ItemURL is the URL of the failed item.
	ItemURL string
	// Phase indicates when the error occurred (e.g., "fetching metadata", "downloading track").
	Phase string
	// ParentCategory is the type of parent collection for tracks.
	ParentCategory DownloadCategory
	// ParentID is the ID of the parent collection.
	ParentID string
	// ParentTitle is the title of the parent collection.
	ParentTitle string
}

// recordError records an error in the statistics with proper context.
// Context cancellation errors are ignored as they are expected during graceful shutdown.
func (s *ServiceImpl) recordError(errCtx *ErrorContext, err error) {
	if errCtx == nil || err == nil {
		return
	}

	// Don't record context cancellation as an error - it's expected when user presses CTRL+C.
	if errors.Is(err, context.Canceled) {
		return
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	downloadErr := DownloadError{
		Category:       errCtx.Category,
		ItemID:         errCtx.ItemID,
		ItemTitle:      errCtx.ItemTitle,
		ItemURL:        errCtx.ItemURL,
		ErrorMessage:   err.Error(),
		Phase:          errCtx.Phase,
		ParentCategory: errCtx.ParentCategory,
		ParentID:       errCtx.ParentID,
		ParentTitle:    errCtx.ParentTitle,
	}

	s.stats.Errors = append(s.stats.Errors, downloadErr)
}
