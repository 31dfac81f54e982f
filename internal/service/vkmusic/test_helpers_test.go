package vkmusic

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	mock_vk "github.com/vkaudiotools/vk-audio-grabber/internal/client/vk/mocks"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
)

// testDownloadSetup encapsulates common test dependencies and configuration.
type testDownloadSetup struct {
	ctrl       *gomock.Controller
	mockClient *mock_vk.MockClient
	service    Service
	config     *config.Config
	tempDir    string
}

// newTestDownloadSetup creates a standard test setup with optional config overrides.
func newTestDownloadSetup(t *testing.T, configOverrides ...func(*config.Config)) *testDownloadSetup {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := mock_vk.NewMockClient(ctrl)
	tempDir := t.TempDir()

	cfg := &config.Config{
		OutputPath:             tempDir,
		MaxConcurrentDownloads: 1,
		ReplaceTracks:          false,
		ParsedMaxDownloadPause: 100 * time.Millisecond,
	}

	// Apply overrides.
	for _, override := range configOverrides {
		override(cfg)
	}

	service := NewService(
		cfg,
		mockClient,
		new(mockURLProcessor),
		new(mockTemplateManager),
		new(mockTagProcessor),
	)

	return &testDownloadSetup{
		ctrl:       ctrl,
		mockClient: mockClient,
		service:    service,
		config:     cfg,
		tempDir:    tempDir,
	}
}

// cleanup releases test resources.
func (s *testDownloadSetup) cleanup() {
	s.ctrl.Finish()
}

// makeTestTrack creates a track with sensible defaults and a direct stream URL.
func makeTestTrack(ownerID, trackID int64, title string) *vk.Track {
	return &vk.Track{
		ID:       trackID,
		OwnerID:  ownerID,
		Artist:   "Test Artist",
		Title:    title,
		Duration: 180,
		URL:      "https://cs1-1v4.vkuseraudio.net/p1/test.mp3",
	}
}

// setupMockFetchTrack configures mock expectations for FetchTrack.
func setupMockFetchTrack(
	mockClient *mock_vk.MockClient,
	streamURL string,
	audioData []byte,
) {
	fetchTrackResult := &vk.FetchTrackResult{
		Body:       io.NopCloser(bytes.NewReader(audioData)),
		TotalBytes: int64(len(audioData)),
	}
	mockClient.EXPECT().
		FetchTrack(gomock.Any(), streamURL).
		Return(fetchTrackResult, nil)
}

// makeFakeAudioData creates deterministic fake audio data for testing.
func makeFakeAudioData(sizeKB int) []byte {
	fakeData := make([]byte, sizeKB*1024)
	for i := range fakeData {
		fakeData[i] = byte(i % 256)
	}

	return fakeData
}

// findPartFiles finds all .part files in the given directory.
func findPartFiles(t *testing.T, dir string) []string {
	t.Helper()

	var partFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ".part" {
			partFiles = append(partFiles, path)
		}

		return nil
	})

	require.NoError(t, err, "Failed to walk directory for .part files")

	return partFiles
}

// findAudioFiles finds all .mp3 files in the given directory.
func findAudioFiles(t *testing.T, dir string) []string {
	t.Helper()

	var audioFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == extensionMP3 {
			audioFiles = append(audioFiles, path)
		}

		return nil
	})

	require.NoError(t, err, "Failed to walk directory for audio files")

	return audioFiles
}

// findFileWithExtension finds the first file with the specified extension and returns its path.
// Also verifies the file content matches expectedContent if provided.
func findFileWithExtension(t *testing.T, dir, ext string, expectedContent []byte) (string, bool) {
	t.Helper()

	var (
		foundPath string
		found     bool
	)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ext {
			found = true
			foundPath = path

			// Verify content if provided.
			if expectedContent != nil {
				content, readErr := os.ReadFile(path)
				require.NoError(t, readErr, "Failed to read file: %s", path)
				assert.Len(t, content, len(expectedContent),
					"File size should match expected size (no truncation)")
				assert.Equal(t, expectedContent, content,
					"File content should match source data exactly")
			}
		}

		return nil
	})

	require.NoError(t, err, "Failed to walk directory")

	return foundPath, found
}
