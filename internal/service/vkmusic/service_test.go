package vkmusic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	mock_vk "github.com/vkaudiotools/vk-audio-grabber/internal/client/vk/mocks"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
)

// mockURLProcessor is a mock implementation of the URLProcessor interface.
type mockURLProcessor struct{}

func (m *mockURLProcessor) ExtractDownloadItems(
	_ context.Context,
	_ []string,
) (*ExtractDownloadItemsResponse, error) {
	return &ExtractDownloadItemsResponse{}, nil
}

func (m *mockURLProcessor) DeduplicateDownloadItems(items []*DownloadItem) []*DownloadItem {
	return items
}

// mockTemplateManager is a mock implementation of the TemplateManager interface.
type mockTemplateManager struct{}

func (m *mockTemplateManager) GetTrackFilename(
	_ context.Context,
	_ bool,
	trackTags map[string]string,
) string {
	return trackTags["trackArtist"] + " - " + trackTags["trackTitle"]
}

func (m *mockTemplateManager) GetPlaylistFolderName(_ context.Context, tags map[string]string) string {
	return tags["playlistTitle"]
}

// mockTagProcessor is a mock implementation of the TagProcessor interface.
type mockTagProcessor struct{}

func (m *mockTagProcessor) WriteTags(_ context.Context, _ *WriteTagsRequest) error {
	return nil
}

// testUserProfile is the profile returned by the token check in tests.
func testUserProfile() *vk.UserProfile {
	return &vk.UserProfile{
		ID:        42314,
		FirstName: "Test",
		LastName:  "User",
	}
}

// TestNewService tests the NewService function.
func TestNewService(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	config := &config.Config{
		OutputPath: t.TempDir(),
	}

	mockClient := mock_vk.NewMockClient(ctrl)
	mockURLProcessor := &mockURLProcessor{}
	mockTemplateManager := &mockTemplateManager{}
	mockTagProcessor := &mockTagProcessor{}

	service := NewService(
		config,
		mockClient,
		mockURLProcessor,
		mockTemplateManager,
		mockTagProcessor,
	)

	assert.NotNil(t, service)
}

// TestServiceImpl_DownloadURLs tests the DownloadURLs method.
func TestServiceImpl_DownloadURLs(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	// Setup mock expectations.
	setup.mockClient.EXPECT().GetProfileInfo(gomock.Any()).Return(testUserProfile(), nil).AnyTimes()

	ctx := context.Background()
	urls := []string{"https://vk.com/audio42314_456239017"}

	// This should not panic
	setup.service.DownloadURLs(ctx, urls)
}

// TestServiceImpl_DownloadURLs_EmptyURLs tests DownloadURLs with empty URLs.
func TestServiceImpl_DownloadURLs_EmptyURLs(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().GetProfileInfo(gomock.Any()).Return(testUserProfile(), nil).AnyTimes()

	ctx := context.Background()
	urls := []string{}

	// This should not panic
	setup.service.DownloadURLs(ctx, urls)
}

// TestServiceImpl_DownloadURLs_BadToken verifies that the pipeline stops
// when the token check fails.
func TestServiceImpl_DownloadURLs_BadToken(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		GetProfileInfo(gomock.Any()).
		Return(nil, errors.New("invalid access token"))

	// No further client calls are expected after a failed token check.
	ctx := context.Background()
	setup.service.DownloadURLs(ctx, []string{"https://vk.com/audio42314_456239017"})
}

// TestServiceImpl_SearchTracks tests searching by text.
func TestServiceImpl_SearchTracks(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	expected := []*vk.Track{
		makeTestTrack(42314, 1, "First"),
		makeTestTrack(42314, 2, "Second"),
	}

	setup.mockClient.EXPECT().
		SearchAudios(gomock.Any(), &vk.SearchAudiosRequest{
			Query:  "test query",
			Count:  10,
			Offset: 5,
		}).
		Return(&vk.AudioList{Count: 2, Items: expected}, nil)

	tracks, err := setup.service.SearchTracks(context.Background(), "test query", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, expected, tracks)
}

// TestServiceImpl_SearchTracks_Error tests error wrapping on a failed search.
func TestServiceImpl_SearchTracks_Error(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		SearchAudios(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("boom"))

	tracks, err := setup.service.SearchTracks(context.Background(), "q", 10, 0)
	require.Error(t, err)
	assert.Nil(t, tracks)
}

// TestServiceImpl_UserTracks tests listing a user's audios.
func TestServiceImpl_UserTracks(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	expected := []*vk.Track{makeTestTrack(-200, 3, "Community Track")}

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), &vk.GetAudiosRequest{
			OwnerID: -200,
			Count:   20,
			Offset:  0,
		}).
		Return(&vk.AudioList{Count: 1, Items: expected}, nil)

	tracks, err := setup.service.UserTracks(context.Background(), -200, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, tracks)
}

// TestServiceImpl_UserTracks_AccessDenied verifies that a private audio list
// surfaces the access denied error to the caller.
func TestServiceImpl_UserTracks_AccessDenied(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		GetAudios(gomock.Any(), gomock.Any()).
		Return(nil, vk.ErrAccessDenied)

	tracks, err := setup.service.UserTracks(context.Background(), 12345, 20, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, vk.ErrAccessDenied)
	assert.Nil(t, tracks)
}

// TestServiceImpl_PopularTracks tests the popular chart passthrough.
func TestServiceImpl_PopularTracks(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	expected := []*vk.Track{makeTestTrack(1, 10, "Chart Topper")}

	setup.mockClient.EXPECT().
		GetPopularAudios(gomock.Any(), int64(30), int64(0)).
		Return(expected, nil)

	tracks, err := setup.service.PopularTracks(context.Background(), 30, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, tracks)
}

// TestServiceImpl_RecommendedTracks tests the recommendations passthrough.
func TestServiceImpl_RecommendedTracks(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	expected := []*vk.Track{makeTestTrack(1, 11, "Recommended")}

	setup.mockClient.EXPECT().
		GetRecommendations(gomock.Any(), &vk.GetRecommendationsRequest{
			UserID: 777,
			Count:  15,
			Offset: 0,
		}).
		Return(&vk.AudioList{Count: 1, Items: expected}, nil)

	tracks, err := setup.service.RecommendedTracks(context.Background(), 777, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, tracks)
}

// TestServiceImpl_PrintTracks ensures the track listing does not panic
// on empty input or tracks with subtitles.
func TestServiceImpl_PrintTracks(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	ctx := context.Background()

	setup.service.PrintTracks(ctx, nil)

	withSubtitle := makeTestTrack(42314, 1, "Song")
	withSubtitle.Subtitle = "Remix"

	setup.service.PrintTracks(ctx, []*vk.Track{withSubtitle})
}
