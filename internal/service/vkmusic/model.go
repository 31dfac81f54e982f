package vkmusic

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
)

const (
	// File extensions.
	extensionMP3 = ".mp3"
	extensionJPG = ".jpg"

	// defaultCoverBasename is the base filename for playlist cover art.
	defaultCoverBasename = "cover"
)

// DownloadCategory represents the type of content being downloaded.
type DownloadCategory uint8

const (
	// DownloadCategoryUnknown - unknown category.
	DownloadCategoryUnknown DownloadCategory = iota
	// DownloadCategoryTrack - single track.
	DownloadCategoryTrack
	// DownloadCategoryUserAudios - a user's or community's full audio list.
	DownloadCategoryUserAudios
	// DownloadCategoryPlaylist - playlist or album.
	DownloadCategoryPlaylist
)

// String returns a human-readable representation of the DownloadCategory.
func (dc DownloadCategory) String() string {
	switch dc {
	case DownloadCategoryUnknown:
		return "unknown"
	case DownloadCategoryTrack:
		return "track"
	case DownloadCategoryUserAudios:
		return "user audios"
	case DownloadCategoryPlaylist:
		return "playlist"
	default:
		return fmt.Sprintf("unknown: %d", dc)
	}
}

// SkipReason represents why a track was skipped.
type SkipReason uint8

const (
	// SkipReasonExists - track file already exists.
	SkipReasonExists SkipReason = iota
	// SkipReasonNoURL - track has no stream URL (blocked or removed audio).
	SkipReasonNoURL
	// SkipReasonStream - track URL points at an HLS stream instead of a file.
	SkipReasonStream
)

// String returns a human-readable representation of the SkipReason.
func (sr SkipReason) String() string {
	switch sr {
	case SkipReasonExists:
		return "already exists"
	case SkipReasonNoURL:
		return "no stream URL"
	case SkipReasonStream:
		return "HLS stream"
	default:
		return fmt.Sprintf("unknown reason: %d", sr)
	}
}

// DownloadItem represents a downloadable item parsed from a URL.
type DownloadItem struct {
	// Category is the type of content (track, user audios, playlist).
	Category DownloadCategory
	// URL is the original URL the item was parsed from.
	URL string
	// OwnerID is the owner (user or community) identifier, negative for communities.
	OwnerID int64
	// ItemID is the item identifier within the owner's scope (zero for user audio lists).
	ItemID int64
	// AccessKey grants access to playlists shared by link.
	AccessKey string
}

// ShortDownloadItem is a lightweight version of DownloadItem without the URL.
// It is used as a map key when deduplicating and registering collections.
type ShortDownloadItem struct {
	// Category is the type of content.
	Category DownloadCategory
	// OwnerID is the owner identifier.
	OwnerID int64
	// ItemID is the item identifier.
	ItemID int64
}

// String returns a human-readable representation of the DownloadItem.
func (di DownloadItem) String() string {
	return fmt.Sprintf("category: %v, ID: %d_%d", di.Category, di.OwnerID, di.ItemID)
}

// GetShortVersion converts a full DownloadItem into a ShortDownloadItem by stripping the URL.
func (di DownloadItem) GetShortVersion() ShortDownloadItem {
	return ShortDownloadItem{
		Category: di.Category,
		OwnerID:  di.OwnerID,
		ItemID:   di.ItemID,
	}
}

// DownloadStatistics tracks metrics for a download session.
type DownloadStatistics struct {
	// StartTime is when the download session began.
	StartTime time.Time
	// EndTime is when the download session completed.
	EndTime time.Time
	// TotalTracksProcessed is the total number of tracks attempted.
	TotalTracksProcessed int64
	// TracksDownloaded is the number of tracks successfully downloaded.
	TracksDownloaded int64
	// TracksSkipped is the total number of tracks skipped for any reason.
	TracksSkipped int64
	// TracksSkippedExists is the number of tracks skipped because they already exist.
	TracksSkippedExists int64
	// TracksSkippedNoURL is the number of tracks skipped because the API returned no stream URL.
	TracksSkippedNoURL int64
	// TracksSkippedStream is the number of tracks skipped because only an HLS stream is available.
	TracksSkippedStream int64
	// TracksFailed is the number of tracks that failed to download.
	TracksFailed int64
	// TotalBytesDownloaded is the total size of downloaded content in bytes.
	TotalBytesDownloaded int64
	// CoversDownloaded is the number of cover art files downloaded.
	CoversDownloaded int64
	// CoversSkipped is the number of cover art files skipped (already exist).
	CoversSkipped int64
	// Errors is a list of all errors encountered during the download process.
	Errors []DownloadError
}

// DownloadError represents a single error that occurred during download.
type DownloadError struct {
	// Category is the type of item that failed (track, playlist, user audios).
	Category DownloadCategory
	// ItemID is the identifier of the item that failed.
	ItemID string
	// ItemTitle is the human-readable title of the item.
	ItemTitle string
	// ItemURL is the URL of the failed item (for playlists and user audio lists).
	ItemURL string
	// ErrorMessage is the error message.
	ErrorMessage string
	// Phase indicates when the error occurred (e.g., "fetching metadata", "downloading track").
	Phase string
	// ParentCategory is the type of parent collection for tracks.
	ParentCategory DownloadCategory
	// ParentID is the ID of the parent collection.
	ParentID string
	// ParentTitle is the title of the parent collection.
	ParentTitle string
}

// DownloadTrackResult contains the result of downloadAndSaveTrack operation.
type DownloadTrackResult struct {
	// IsExist indicates whether the track file already existed (download was skipped).
	IsExist bool
	// TempPath is the path to the temporary .part file (empty if download was skipped or failed).
	TempPath string
	// BytesDownloaded is the number of bytes successfully downloaded.
	BytesDownloaded int64
}

// audioCollection represents a playlist being downloaded, with associated metadata.
type audioCollection struct {
	// category indicates the type of collection.
	category DownloadCategory
	// title is the collection name.
	title string
	// tags contains metadata key-value pairs for the collection.
	tags map[string]string
	// tracksPath is the directory path where tracks will be saved.
	tracksPath string
	// coverPath is the file path for the collection's cover art.
	coverPath string
	// coverTempPath is the temporary UUID-based path for the cover (used during concurrent downloads).
	coverTempPath string
	// tracks is the ordered track list of the collection.
	tracks []*vk.Track
	// tracksCount is the total number of tracks in the collection.
	tracksCount int64
	// completedTracks counts finished download attempts.
	// The cover art is finalized once it reaches tracksCount.
	completedTracks atomic.Int64
}
