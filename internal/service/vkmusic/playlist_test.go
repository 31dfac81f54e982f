package vkmusic

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
)

// TestDownloadPlaylist tests the full playlist pipeline: metadata, track listing,
// cover art and track files in a dedicated folder.
func TestDownloadPlaylist(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	const (
		ownerID    = int64(-2000984503)
		playlistID = int64(984503)
		accessKey  = "deadbeef"
	)

	playlist := &vk.Playlist{
		ID:      playlistID,
		OwnerID: ownerID,
		Title:   "My Playlist",
		Count:   2,
		Photo:   &vk.PlaylistPhoto{Photo300: "https://img.vk.com/cover.jpg?size=300"},
	}

	tracks := []*vk.Track{
		makeTestTrack(ownerID, 1, "First"),
		makeTestTrack(ownerID, 2, "Second"),
	}
	tracks[0].URL = "https://cs1-1v4.vkuseraudio.net/p1/first.mp3"
	tracks[1].URL = "https://cs1-1v4.vkuseraudio.net/p1/second.mp3"

	setup.mockClient.EXPECT().
		GetPlaylistByID(gomock.Any(), ownerID, playlistID, accessKey).
		Return(playlist, nil)

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), &vk.GetAudiosRequest{
			OwnerID:   ownerID,
			AlbumID:   playlistID,
			AccessKey: accessKey,
			Count:     audioPageSize,
			Offset:    0,
		}).
		Return(&vk.AudioList{Count: 2, Items: tracks}, nil)

	coverData := []byte("fake jpeg bytes")
	setup.mockClient.EXPECT().
		DownloadFromURL(gomock.Any(), playlist.CoverURL()).
		Return(io.NopCloser(bytes.NewReader(coverData)), nil)

	fakeAudioData := makeFakeAudioData(2)
	setupMockFetchTrack(setup.mockClient, tracks[0].URL, fakeAudioData)
	setupMockFetchTrack(setup.mockClient, tracks[1].URL, fakeAudioData)

	impl, ok := setup.service.(*ServiceImpl)
	require.True(t, ok)

	impl.downloadPlaylist(context.Background(), &DownloadItem{
		Category:  DownloadCategoryPlaylist,
		URL:       "https://vk.com/music/playlist/-2000984503_984503_deadbeef",
		OwnerID:   ownerID,
		ItemID:    playlistID,
		AccessKey: accessKey,
	})

	// The playlist folder is named by the folder template.
	playlistDir := filepath.Join(setup.tempDir, "My Playlist")
	assert.DirExists(t, playlistDir)

	// Both tracks should be inside the playlist folder, with no leftovers.
	assert.Len(t, findAudioFiles(t, playlistDir), 2)
	assert.Empty(t, findPartFiles(t, setup.tempDir))

	// The cover should be finalized to its stable name after the last track.
	coverPath, found := findFileWithExtension(t, playlistDir, extensionJPG, coverData)
	assert.True(t, found, "The playlist cover should have been downloaded")
	assert.Equal(t, filepath.Join(playlistDir, "cover.jpg"), coverPath)

	assert.Equal(t, int64(2), impl.stats.TracksDownloaded)
	assert.Equal(t, int64(1), impl.stats.CoversDownloaded)
	assert.Empty(t, impl.stats.Errors)
}

// TestCollectionCoverFinalizedAfterLastTrack ensures the cover keeps its
// temporary name until every track of the collection has finished, regardless
// of the order the tracks complete in.
func TestCollectionCoverFinalizedAfterLastTrack(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	impl, ok := setup.service.(*ServiceImpl)
	require.True(t, ok)

	playlistDir := t.TempDir()
	tempCoverPath := filepath.Join(playlistDir, defaultCoverBasename+"_temp"+extensionJPG)
	err := os.WriteFile(tempCoverPath, []byte("fake jpeg bytes"), 0o644) //nolint:gosec // It's a test file.
	require.NoError(t, err)

	//nolint:exhaustruct // Only the cover bookkeeping fields matter here.
	collection := &audioCollection{
		category:      DownloadCategoryPlaylist,
		title:         "Race Playlist",
		tracksPath:    playlistDir,
		coverPath:     tempCoverPath,
		coverTempPath: tempCoverPath,
		tracksCount:   3,
	}

	finalCoverPath := filepath.Join(playlistDir, defaultCoverBasename+extensionJPG)

	// Tracks that finish early must not touch the cover, even when the one
	// carrying the highest track number completes first.
	for range 2 {
		impl.noteCollectionTrackDone(context.Background(), collection)

		assert.FileExists(t, tempCoverPath)
		assert.NoFileExists(t, finalCoverPath)
	}

	// The last finished track renames the cover to its stable name.
	impl.noteCollectionTrackDone(context.Background(), collection)

	assert.FileExists(t, finalCoverPath)
	assert.NoFileExists(t, tempCoverPath)
}

// TestDownloadPlaylist_Empty tests that an empty playlist is recorded as an error.
func TestDownloadPlaylist_Empty(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	playlist := &vk.Playlist{
		ID:      10,
		OwnerID: 20,
		Title:   "Empty Playlist",
	}

	setup.mockClient.EXPECT().
		GetPlaylistByID(gomock.Any(), int64(20), int64(10), "").
		Return(playlist, nil)

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), gomock.Any()).
		Return(&vk.AudioList{Count: 0, Items: nil}, nil)

	impl, ok := setup.service.(*ServiceImpl)
	require.True(t, ok)

	impl.downloadPlaylist(context.Background(), &DownloadItem{
		Category: DownloadCategoryPlaylist,
		OwnerID:  20,
		ItemID:   10,
	})

	require.Len(t, impl.stats.Errors, 1)
	assert.Equal(t, ErrEmptyPlaylist.Error(), impl.stats.Errors[0].ErrorMessage)
	assert.Equal(t, "Empty Playlist", impl.stats.Errors[0].ItemTitle)
}

// TestFetchAllAudios_Paging tests that long listings are collected across pages.
func TestFetchAllAudios_Paging(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	firstPage := make([]*vk.Track, audioPageSize)
	for i := range firstPage {
		firstPage[i] = makeTestTrack(1, int64(i), "Page 1")
	}

	secondPage := []*vk.Track{makeTestTrack(1, audioPageSize, "Page 2")}

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), &vk.GetAudiosRequest{
			OwnerID: 1,
			Count:   audioPageSize,
			Offset:  0,
		}).
		Return(&vk.AudioList{Count: audioPageSize + 1, Items: firstPage}, nil)

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), &vk.GetAudiosRequest{
			OwnerID: 1,
			Count:   audioPageSize,
			Offset:  audioPageSize,
		}).
		Return(&vk.AudioList{Count: audioPageSize + 1, Items: secondPage}, nil)

	impl, ok := setup.service.(*ServiceImpl)
	require.True(t, ok)

	tracks, err := impl.fetchAllAudios(context.Background(), &vk.GetAudiosRequest{OwnerID: 1})
	require.NoError(t, err)
	assert.Len(t, tracks, audioPageSize+1)
}

// TestDownloadUserAudios_AccessDenied tests that a private audio list is
// recorded as an error without aborting the whole run.
func TestDownloadUserAudios_AccessDenied(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		GetAudioCount(gomock.Any(), int64(12345)).
		Return(int64(0), vk.ErrAccessDenied)

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), gomock.Any()).
		Return(nil, vk.ErrAccessDenied)

	impl, ok := setup.service.(*ServiceImpl)
	require.True(t, ok)

	impl.downloadUserAudios(context.Background(), &DownloadItem{
		Category: DownloadCategoryUserAudios,
		OwnerID:  12345,
	})

	require.Len(t, impl.stats.Errors, 1)
	assert.Equal(t, DownloadCategoryUserAudios, impl.stats.Errors[0].Category)
	assert.Empty(t, findAudioFiles(t, setup.tempDir))
}
