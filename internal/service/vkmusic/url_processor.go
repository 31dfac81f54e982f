package vkmusic

//go:generate $MOCKGEN -source=url_processor.go -destination=mocks/url_processor_mock.go

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/utils"
)

// URLProcessor defines the interface for processing URLs and extracting downloadable items.
type URLProcessor interface {
	// ExtractDownloadItems processes a list of URLs and categorizes them
	// into tracks, playlists, and user audio lists.
	ExtractDownloadItems(ctx context.Context, urls []string) (*ExtractDownloadItemsResponse, error)
	// DeduplicateDownloadItems removes duplicate DownloadItems based on their category and identifiers.
	DeduplicateDownloadItems(items []*DownloadItem) []*DownloadItem
}

// ExtractDownloadItemsResponse represents the result of processing URLs.
type ExtractDownloadItemsResponse struct {
	// Tracks contains individual track download items.
	Tracks []*DownloadItem
	// Playlists contains playlist and album download items.
	Playlists []*DownloadItem
	// UserAudios contains full audio list download items.
	UserAudios []*DownloadItem
}

// URLProcessorImpl implements the URLProcessor interface.
type URLProcessorImpl struct{}

// defaultTextExtension is the default file extension for text files.
const defaultTextExtension = ".txt"

// categoriesByPatterns maps URL patterns to download categories.
// Playlist patterns come first: "audio_playlist{owner}_{id}" must not
// fall through to the bare "audio{owner}_{id}" track pattern.
//
//nolint:gochecknoglobals,lll // This is a justified global variable: immutable data, performance optimization, and reusability.
var categoriesByPatterns = []struct {
	// Pattern is the regex pattern to match URLs.
	Pattern *regexp.Regexp
	// Category is the download category for matched URLs.
	Category DownloadCategory
}{
	{regexp.MustCompile(`audio_playlist(?<Owner>-?\d+)_(?<ID>\d+)(?:(?:_|/|&access_key=)(?<Key>[0-9a-f]+))?`), DownloadCategoryPlaylist},
	{regexp.MustCompile(`/music/(?:playlist|album)/(?<Owner>-?\d+)_(?<ID>\d+)(?:_(?<Key>[0-9a-f]+))?`), DownloadCategoryPlaylist},
	{regexp.MustCompile(`audios(?<Owner>-?\d+)`), DownloadCategoryUserAudios},
	{regexp.MustCompile(`audio(?<Owner>-?\d+)_(?<ID>\d+)`), DownloadCategoryTrack},
}

// NewURLProcessor creates and returns a new instance of URLProcessorImpl.
func NewURLProcessor() URLProcessor {
	return &URLProcessorImpl{}
}

// ExtractDownloadItems processes a list of URLs and categorizes them
// into tracks, playlists, and user audio lists.
func (up *URLProcessorImpl) ExtractDownloadItems(
	ctx context.Context,
	urls []string,
) (*ExtractDownloadItemsResponse, error) {
	// Process and flatten URLs to handle text files containing multiple URLs.
	urls, err := up.processAndFlattenURLs(urls)
	if err != nil {
		return nil, err
	}

	var (
		tracks     []*DownloadItem
		playlists  []*DownloadItem
		userAudios []*DownloadItem
		parsedURLs = make(map[string]struct{}, len(urls))
	)

	// Iterate through each URL and categorize it.
	for _, url := range urls {
		// Skip already parsed URLs to avoid duplicates.
		if _, ok := parsedURLs[url]; ok {
			continue
		}

		// Parse the URL into a DownloadItem.
		item := up.parseDownloadItem(url)
		parsedURLs[url] = struct{}{}

		// Categorize the item based on its type.
		switch item.Category {
		case DownloadCategoryTrack:
			tracks = append(tracks, item)
		case DownloadCategoryPlaylist:
			playlists = append(playlists, item)
		case DownloadCategoryUserAudios:
			userAudios = append(userAudios, item)
		case DownloadCategoryUnknown:
			logger.Warnf(ctx, "Unknown URL: %s", url)
		}
	}

	// Return the categorized items.
	return &ExtractDownloadItemsResponse{
		Tracks:     tracks,
		Playlists:  playlists,
		UserAudios: userAudios,
	}, nil
}

// DeduplicateDownloadItems removes duplicate DownloadItems based on their category and identifiers.
func (up *URLProcessorImpl) DeduplicateDownloadItems(items []*DownloadItem) []*DownloadItem {
	// Use a map to track unique items.
	uniqueItems := make(map[ShortDownloadItem]struct{}, len(items))
	result := make([]*DownloadItem, 0, len(items))

	// Iterate through items and add only unique ones to the result.
	for _, item := range items {
		key := item.GetShortVersion()
		if _, ok := uniqueItems[key]; ok {
			continue
		}

		uniqueItems[key] = struct{}{}

		result = append(result, item)
	}

	return result
}

func (up *URLProcessorImpl) parseDownloadItem(url string) *DownloadItem {
	// Match the URL against each pattern to determine its category.
	for _, p := range categoriesByPatterns {
		ownerIDString := utils.ExtractNamedGroup(p.Pattern, "Owner", url)
		if ownerIDString == "" {
			continue
		}

		ownerID, err := strconv.ParseInt(ownerIDString, 10, 64)
		if err != nil {
			continue
		}

		item := &DownloadItem{
			Category:  p.Category,
			URL:       url,
			OwnerID:   ownerID,
			AccessKey: utils.ExtractNamedGroup(p.Pattern, "Key", url),
		}

		// User audio lists carry no item ID, only the owner.
		if itemIDString := utils.ExtractNamedGroup(p.Pattern, "ID", url); itemIDString != "" {
			item.ItemID, err = strconv.ParseInt(itemIDString, 10, 64)
			if err != nil {
				continue
			}
		}

		return item
	}

	// If no pattern matches, return an item with an unknown category.
	return &DownloadItem{
		Category: DownloadCategoryUnknown,
		URL:      url,
	}
}

func (up *URLProcessorImpl) processAndFlattenURLs(urls []string) ([]string, error) {
	var (
		// Track processed URLs.
		processedSet = make(map[string]struct{})
		// Track processed text files.
		processedTextFiles = make(map[string]struct{})
		// Store the final list of URLs.
		processedURLs []string
	)

	// Iterate through each URL.
	for _, url := range urls {
		// If the URL is not a text file, add it directly to the processed list.
		if !strings.HasSuffix(url, defaultTextExtension) {
			if _, ok := processedSet[url]; ok {
				continue
			}

			processedSet[url] = struct{}{}

			processedURLs = append(processedURLs, url)

			continue
		}

		// Skip already processed text files.
		if _, exists := processedTextFiles[url]; exists {
			continue
		}

		// Read unique lines from the text file.
		lines, err := utils.ReadUniqueLinesFromFile(url)
		if err != nil {
			return nil, err
		}

		// Add each line (URL) from the text file to the processed list.
		for _, line := range lines {
			if _, ok := processedSet[line]; ok {
				continue
			}

			processedSet[line] = struct{}{}

			processedURLs = append(processedURLs, line)
		}

		// Mark the text file as processed.
		processedTextFiles[url] = struct{}{}
	}

	return processedURLs, nil
}
