package vk

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	http_transport "github.com/vkaudiotools/vk-audio-grabber/internal/transport/http"
	"github.com/vkaudiotools/vk-audio-grabber/internal/utils"
)

// Client defines the interface for interacting with the VK audio API.
type Client interface {
	// DownloadFromURL downloads content from the specified URL.
	DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error)
	// FetchTrack fetches track audio data from the specified stream URL.
	FetchTrack(ctx context.Context, trackURL string) (*FetchTrackResult, error)
	// GetAudioCount returns the number of audios owned by the given user or community.
	GetAudioCount(ctx context.Context, ownerID int64) (int64, error)
	// GetAudios lists the audios of a user, community or playlist.
	GetAudios(ctx context.Context, request *GetAudiosRequest) (*AudioList, error)
	// GetAudiosByID retrieves audios by their full "{owner}_{id}" identifiers.
	GetAudiosByID(ctx context.Context, fullIDs []string) ([]*Track, error)
	// GetPlaylistByID retrieves metadata of a single playlist.
	GetPlaylistByID(ctx context.Context, ownerID, playlistID int64, accessKey string) (*Playlist, error)
	// GetPlaylists lists the playlists of a user or community.
	GetPlaylists(ctx context.Context, ownerID, count, offset int64) (*PlaylistList, error)
	// GetPopularAudios retrieves the service-wide popular chart.
	GetPopularAudios(ctx context.Context, count, offset int64) ([]*Track, error)
	// GetProfileInfo retrieves the token owner's profile. Also serves as the token validity check.
	GetProfileInfo(ctx context.Context) (*UserProfile, error)
	// GetRecommendations retrieves recommended audios for a user or seed track.
	GetRecommendations(ctx context.Context, request *GetRecommendationsRequest) (*AudioList, error)
	// RequestToken performs the OAuth password grant, including captcha and 2FA answers.
	RequestToken(ctx context.Context, request *TokenRequest) (*TokenResponse, error)
	// SearchAlbums searches albums by text.
	SearchAlbums(ctx context.Context, query string, count, offset int64) (*PlaylistList, error)
	// SearchAudios searches audios by text.
	SearchAudios(ctx context.Context, request *SearchAudiosRequest) (*AudioList, error)
	// SearchPlaylists searches playlists by text.
	SearchPlaylists(ctx context.Context, query string, count, offset int64) (*PlaylistList, error)
	// UserAgent returns the User-Agent string the client presents to the API.
	UserAgent() string
	// ValidatePhone triggers delivery of a second-factor code for the given validation session.
	ValidatePhone(ctx context.Context, validationSID string) (*PhoneValidation, error)
}

// ClientImpl implements the Client interface for interacting with the VK audio API.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// apiBaseURL is the base URL for API method calls.
	apiBaseURL string
	// oauthBaseURL is the base URL for the OAuth token endpoint.
	oauthBaseURL string
	// profile is the application profile used for authentication.
	profile *APIClientProfile
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// searchCache caches search result pages to reduce duplicate API calls.
	searchCache *lru.Cache[string, *AudioList]
	// audiosCache caches audio listing pages to reduce duplicate API calls.
	audiosCache *lru.Cache[string, *AudioList]
	// playlistsCache caches playlist listing pages to reduce duplicate API calls.
	playlistsCache *lru.Cache[string, *PlaylistList]
}

// NewClient creates and returns a new instance of ClientImpl.
// The user agent is taken from the configuration when present,
// falling back to the selected application profile.
func NewClient(cfg *config.Config) (Client, error) {
	profileName := cfg.APIClient
	if profileName == "" {
		profileName = DefaultAPIClientProfileName
	}

	profile, ok := ProfileByName(profileName)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", config.ErrUnknownAPIClient, profileName)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = profile.UserAgent
	}

	// Initialize the HTTP client with custom transport and timeout.
	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(userAgent)),
		Timeout: http_transport.DefaultTimeout,
	}

	// Initialize LRU caches for listing pages to reduce redundant API calls.
	searchCache, err := lru.New[string, *AudioList](searchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	audiosCache, err := lru.New[string, *AudioList](audiosCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create audios cache: %w", err)
	}

	playlistsCache, err := lru.New[string, *PlaylistList](playlistsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlists cache: %w", err)
	}

	client := &ClientImpl{
		cfg:            cfg,
		apiBaseURL:     cfg.APIBaseURL,
		oauthBaseURL:   cfg.OAuthBaseURL,
		profile:        profile,
		httpClient:     httpClient,
		searchCache:    searchCache,
		audiosCache:    audiosCache,
		playlistsCache: playlistsCache,
	}

	return client, nil
}

// DownloadFromURL downloads content from the specified URL.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return response.Body, nil
}

// FetchTrack fetches track audio data from the specified stream URL.
func (c *ClientImpl) FetchTrack(ctx context.Context, trackURL string) (*FetchTrackResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	// Add a Range header to request partial content.
	request.Header.Add("Range", "bytes=0-")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusPartialContent {
		response.Body.Close() //nolint:gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &FetchTrackResult{
		Body:       response.Body,
		TotalBytes: response.ContentLength,
	}, nil
}

// GetAudioCount returns the number of audios owned by the given user or community.
func (c *ClientImpl) GetAudioCount(ctx context.Context, ownerID int64) (int64, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))

	return callAPIMethod[int64](c, ctx, methodAudioGetCount, params)
}

// GetAudios lists the audios of a user, community or playlist.
// Pages are cached: a full library fetch walks the same owner repeatedly.
func (c *ClientImpl) GetAudios(ctx context.Context, request *GetAudiosRequest) (*AudioList, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(request.OwnerID, 10))
	params.Set("count", formatCount(request.Count, defaultAudiosCount, maxAudiosCount))
	params.Set("offset", strconv.FormatInt(request.Offset, 10))

	if request.AlbumID != 0 {
		params.Set("album_id", strconv.FormatInt(request.AlbumID, 10))
	}

	if request.AccessKey != "" {
		params.Set("access_key", request.AccessKey)
	}

	cacheKey := methodAudioGet + "?" + params.Encode()
	if cached, ok := c.audiosCache.Get(cacheKey); ok {
		logger.Debugf(ctx, "Audio listing cache hit: %s", cacheKey)

		return cached, nil
	}

	result, err := callAPIMethod[*AudioList](c, ctx, methodAudioGet, params)
	if err != nil {
		return nil, err
	}

	c.audiosCache.Add(cacheKey, result)

	return result, nil
}

// GetAudiosByID retrieves audios by their full "{owner}_{id}" identifiers.
func (c *ClientImpl) GetAudiosByID(ctx context.Context, fullIDs []string) ([]*Track, error) {
	params := url.Values{}
	params.Set("audios", strings.Join(fullIDs, ","))

	return callAPIMethod[[]*Track](c, ctx, methodAudioGetByID, params)
}

// GetPlaylistByID retrieves metadata of a single playlist.
func (c *ClientImpl) GetPlaylistByID(
	ctx context.Context,
	ownerID, playlistID int64,
	accessKey string,
) (*Playlist, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("playlist_id", strconv.FormatInt(playlistID, 10))

	if accessKey != "" {
		params.Set("access_key", accessKey)
	}

	return callAPIMethod[*Playlist](c, ctx, methodAudioGetPlaylistByID, params)
}

// GetPlaylists lists the playlists of a user or community.
func (c *ClientImpl) GetPlaylists(ctx context.Context, ownerID, count, offset int64) (*PlaylistList, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("count", formatCount(count, defaultPlaylistsCount, maxPlaylistsCount))
	params.Set("offset", strconv.FormatInt(offset, 10))

	return c.getPlaylistListCached(ctx, methodAudioGetPlaylists, params)
}

// GetPopularAudios retrieves the service-wide popular chart.
// The response is a bare track array rather than the usual count/items envelope.
func (c *ClientImpl) GetPopularAudios(ctx context.Context, count, offset int64) ([]*Track, error) {
	params := url.Values{}
	params.Set("count", formatCount(count, defaultAudiosCount, maxPopularCount))
	params.Set("offset", strconv.FormatInt(offset, 10))

	return callAPIMethod[[]*Track](c, ctx, methodAudioGetPopular, params)
}

// GetProfileInfo retrieves the token owner's profile.
func (c *ClientImpl) GetProfileInfo(ctx context.Context) (*UserProfile, error) {
	return callAPIMethod[*UserProfile](c, ctx, methodAccountGetProfileInfo, url.Values{})
}

// GetRecommendations retrieves recommended audios for a user or seed track.
func (c *ClientImpl) GetRecommendations(
	ctx context.Context,
	request *GetRecommendationsRequest,
) (*AudioList, error) {
	params := url.Values{}
	params.Set("count", formatCount(request.Count, defaultAudiosCount, maxRecommendationsCount))
	params.Set("offset", strconv.FormatInt(request.Offset, 10))

	if request.UserID != 0 {
		params.Set("user_id", strconv.FormatInt(request.UserID, 10))
	}

	if request.TargetAudio != "" {
		params.Set("target_audio", request.TargetAudio)
	}

	return callAPIMethod[*AudioList](c, ctx, methodAudioGetRecs, params)
}

// SearchAlbums searches albums by text.
func (c *ClientImpl) SearchAlbums(ctx context.Context, query string, count, offset int64) (*PlaylistList, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", formatCount(count, defaultPlaylistsCount, maxPlaylistsCount))
	params.Set("offset", strconv.FormatInt(offset, 10))

	return c.getPlaylistListCached(ctx, methodAudioSearchAlbums, params)
}

// SearchAudios searches audios by text.
// Result pages are cached to keep repeated interactive searches cheap.
func (c *ClientImpl) SearchAudios(ctx context.Context, request *SearchAudiosRequest) (*AudioList, error) {
	params := url.Values{}
	params.Set("q", request.Query)
	params.Set("count", formatCount(request.Count, defaultAudiosCount, maxSearchCount))
	params.Set("offset", strconv.FormatInt(request.Offset, 10))
	params.Set("sort", "0")
	params.Set("autocomplete", "1")

	cacheKey := methodAudioSearch + "?" + params.Encode()
	if cached, ok := c.searchCache.Get(cacheKey); ok {
		logger.Debugf(ctx, "Search cache hit: %s", cacheKey)

		return cached, nil
	}

	result, err := callAPIMethod[*AudioList](c, ctx, methodAudioSearch, params)
	if err != nil {
		return nil, err
	}

	c.searchCache.Add(cacheKey, result)

	return result, nil
}

// SearchPlaylists searches playlists by text.
func (c *ClientImpl) SearchPlaylists(ctx context.Context, query string, count, offset int64) (*PlaylistList, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", formatCount(count, defaultPlaylistsCount, maxPlaylistsCount))
	params.Set("offset", strconv.FormatInt(offset, 10))

	return c.getPlaylistListCached(ctx, methodAudioSearchPlaylists, params)
}

// ValidatePhone triggers delivery of a second-factor code.
// Called without a token, during the login flow.
func (c *ClientImpl) ValidatePhone(ctx context.Context, validationSID string) (*PhoneValidation, error) {
	params := url.Values{}
	params.Set("sid", validationSID)

	return callAPIMethod[*PhoneValidation](c, ctx, methodAuthValidatePhone, params)
}

func (c *ClientImpl) getPlaylistListCached(
	ctx context.Context,
	method string,
	params url.Values,
) (*PlaylistList, error) {
	cacheKey := method + "?" + params.Encode()
	if cached, ok := c.playlistsCache.Get(cacheKey); ok {
		logger.Debugf(ctx, "Playlist listing cache hit: %s", cacheKey)

		return cached, nil
	}

	result, err := callAPIMethod[*PlaylistList](c, ctx, method, params)
	if err != nil {
		return nil, err
	}

	c.playlistsCache.Add(cacheKey, result)

	return result, nil
}

// formatCount clamps a requested page size into the method's server limit.
func formatCount(count, defaultCount, maxCount int64) string {
	if count <= 0 {
		count = defaultCount
	}

	if count > maxCount {
		count = maxCount
	}

	return strconv.FormatInt(count, 10)
}

// apiEnvelope is the standard VK method response wrapper.
type apiEnvelope[T any] struct {
	Response T         `json:"response"`
	Error    *APIError `json:"error"`
}

// callAPIMethod executes a VK API method and decodes its response payload,
// retrying rate-limited calls with a randomized pause.
//
//nolint:revive // Free function because Go doesn't allow struct methods to be generic.
func callAPIMethod[T any](c *ClientImpl, ctx context.Context, method string, params url.Values) (T, error) {
	var zero T

	attemptsLeft := c.cfg.RetryAttemptsCount
	if attemptsLeft <= 0 {
		attemptsLeft = 1
	}

	for {
		result, err := doAPIRequest[T](c, ctx, method, params)
		if err == nil {
			return result, nil
		}

		attemptsLeft--

		if attemptsLeft > 0 && errors.Is(err, ErrTooManyRequests) {
			logger.Infof(ctx, "Rate limited on %s, retrying (%d attempts left)", method, attemptsLeft)
			utils.RandomPause(c.cfg.ParsedMinRetryPause, c.cfg.ParsedMaxRetryPause)

			continue
		}

		return zero, err
	}
}

//nolint:revive // Free function because Go doesn't allow struct methods to be generic.
func doAPIRequest[T any](c *ClientImpl, ctx context.Context, method string, params url.Values) (T, error) {
	var zero T

	route, err := url.JoinPath(c.apiBaseURL, method)
	if err != nil {
		return zero, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, route, http.NoBody)
	if err != nil {
		return zero, err
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}

	query.Set("https", "1")
	query.Set("lang", "ru")
	query.Set("extended", "1")
	query.Set("v", apiVersion)

	// auth.validatePhone runs before a token exists.
	if c.cfg.Token != "" {
		query.Set("access_token", c.cfg.Token)
	}

	request.URL.RawQuery = query.Encode()

	response, err := c.httpClient.Do(request)
	if err != nil {
		return zero, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var envelope apiEnvelope[T]
	if err = json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return zero, err
	}

	if envelope.Error != nil {
		return zero, fmt.Errorf("%s: %w", method, envelope.Error)
	}

	return envelope.Response, nil
}
