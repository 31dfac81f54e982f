package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
)

// newTestClient builds a client pointed at a local test server.
func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Token:               "test-token",
		APIBaseURL:          server.URL + "/method",
		OAuthBaseURL:        server.URL,
		RetryAttemptsCount:  1,
		ParsedMinRetryPause: time.Millisecond,
		ParsedMaxRetryPause: 2 * time.Millisecond,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	return client
}

func writeAPIResponse(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"response": payload}))
}

func writeAPIError(t *testing.T, w http.ResponseWriter, code int64, message string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"error_code": code,
			"error_msg":  message,
		},
	}))
}

// TestNewClient_UnknownProfile tests that an unregistered profile name is rejected.
func TestNewClient_UnknownProfile(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{APIClient: "spotify"}

	_, err := NewClient(cfg)
	require.ErrorIs(t, err, config.ErrUnknownAPIClient)
}

// TestSearchAudios tests search request shape and response decoding.
func TestSearchAudios(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/audio.search", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "never gonna give you up", query.Get("q"))
		assert.Equal(t, "0", query.Get("sort"))
		assert.Equal(t, "1", query.Get("autocomplete"))
		assert.Equal(t, "test-token", query.Get("access_token"))
		assert.Equal(t, apiVersion, query.Get("v"))

		writeAPIResponse(t, w, &AudioList{
			Count: 1,
			Items: []*Track{
				{
					ID:       101,
					OwnerID:  -200,
					Artist:   "Rick Astley",
					Title:    "Never Gonna Give You Up",
					Duration: 213,
					URL:      "https://cs1.example.com/audio.mp3",
				},
			},
		})
	}))

	result, err := client.SearchAudios(context.Background(), &SearchAudiosRequest{
		Query: "never gonna give you up",
		Count: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Count)
	assert.Equal(t, "Rick Astley", result.Items[0].Artist)
	assert.Equal(t, "-200_101", result.Items[0].FullID())
}

// TestSearchAudios_Cached tests that identical searches are served from cache.
func TestSearchAudios_Cached(t *testing.T) {
	t.Parallel()

	var calls int

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++

		writeAPIResponse(t, w, &AudioList{Count: 0})
	}))

	ctx := context.Background()
	request := &SearchAudiosRequest{Query: "cached query", Count: 5}

	_, err := client.SearchAudios(ctx, request)
	require.NoError(t, err)

	_, err = client.SearchAudios(ctx, request)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second identical search should hit the cache")
}

// TestGetAudios_AccessDenied tests that a private library maps to ErrAccessDenied.
func TestGetAudios_AccessDenied(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(t, w, errorCodeAudioAccessDenied, "Access denied: this user's audio is private")
	}))

	_, err := client.GetAudios(context.Background(), &GetAudiosRequest{OwnerID: 12345})
	require.ErrorIs(t, err, ErrAccessDenied)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int64(errorCodeAudioAccessDenied), apiErr.Code)
}

// TestGetAudios_PlaylistParams tests playlist addressing parameters.
func TestGetAudios_PlaylistParams(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "-100", query.Get("owner_id"))
		assert.Equal(t, "7", query.Get("album_id"))
		assert.Equal(t, "deadbeef", query.Get("access_key"))

		writeAPIResponse(t, w, &AudioList{Count: 0})
	}))

	_, err := client.GetAudios(context.Background(), &GetAudiosRequest{
		OwnerID:   -100,
		AlbumID:   7,
		AccessKey: "deadbeef",
	})
	require.NoError(t, err)
}

// TestGetAudiosByID tests resolving tracks by their full identifiers.
func TestGetAudiosByID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/audio.getById", r.URL.Path)
		assert.Equal(t, "42314_456239017,-100_1", r.URL.Query().Get("audios"))

		writeAPIResponse(t, w, []*Track{
			{ID: 456239017, OwnerID: 42314, Artist: "Кино", Title: "Группа крови"},
			{ID: 1, OwnerID: -100, Artist: "Аквариум", Title: "Город золотой"},
		})
	}))

	tracks, err := client.GetAudiosByID(context.Background(), []string{"42314_456239017", "-100_1"})
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "42314_456239017", tracks[0].FullID())
}

// TestGetAudioCount tests the bare-number response of audio.getCount.
func TestGetAudioCount(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/audio.getCount", r.URL.Path)
		assert.Equal(t, "42314", r.URL.Query().Get("owner_id"))

		writeAPIResponse(t, w, 184)
	}))

	count, err := client.GetAudioCount(context.Background(), 42314)
	require.NoError(t, err)
	assert.Equal(t, int64(184), count)
}

// TestGetPopularAudios tests the bare-array response of audio.getPopular.
func TestGetPopularAudios(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/audio.getPopular", r.URL.Path)

		writeAPIResponse(t, w, []*Track{
			{ID: 1, Title: "First"},
			{ID: 2, Title: "Second"},
		})
	}))

	tracks, err := client.GetPopularAudios(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Second", tracks[1].Title)
}

// TestGetPopularAudios_CountClamped tests clamping to the server maximum.
func TestGetPopularAudios_CountClamped(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000", r.URL.Query().Get("count"))

		writeAPIResponse(t, w, []*Track{})
	}))

	_, err := client.GetPopularAudios(context.Background(), 50000, 0)
	require.NoError(t, err)
}

// TestGetProfileInfo tests profile decoding.
func TestGetProfileInfo(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/account.getProfileInfo", r.URL.Path)

		writeAPIResponse(t, w, &UserProfile{
			ID:        42314,
			FirstName: "Ivan",
			LastName:  "Petrov",
			Phone:     "+7 *** *** ** 42",
		})
	}))

	profile, err := client.GetProfileInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42314), profile.ID)
	assert.Equal(t, "Ivan", profile.FirstName)
}

// TestCallAPIMethod_RetriesOnRateLimit tests the bounded retry on VK error code 6.
func TestCallAPIMethod_RetriesOnRateLimit(t *testing.T) {
	t.Parallel()

	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			writeAPIError(t, w, errorCodeTooManyRequests, "Too many requests per second")

			return
		}

		writeAPIResponse(t, w, &UserProfile{ID: 1})
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Token:               "test-token",
		APIBaseURL:          server.URL + "/method",
		OAuthBaseURL:        server.URL,
		RetryAttemptsCount:  3,
		ParsedMinRetryPause: time.Millisecond,
		ParsedMaxRetryPause: 2 * time.Millisecond,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	profile, err := client.GetProfileInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	assert.Equal(t, 2, calls)
}

// TestCallAPIMethod_RetriesExhausted tests that persistent rate limiting surfaces the error.
func TestCallAPIMethod_RetriesExhausted(t *testing.T) {
	t.Parallel()

	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++

		writeAPIError(t, w, errorCodeTooManyRequests, "Too many requests per second")
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Token:               "test-token",
		APIBaseURL:          server.URL + "/method",
		OAuthBaseURL:        server.URL,
		RetryAttemptsCount:  2,
		ParsedMinRetryPause: time.Millisecond,
		ParsedMaxRetryPause: 2 * time.Millisecond,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.GetProfileInfo(context.Background())
	require.ErrorIs(t, err, ErrTooManyRequests)
	assert.Equal(t, 2, calls)
}

// TestFetchTrack tests audio stream fetching.
func TestFetchTrack(t *testing.T) {
	t.Parallel()

	audioData := []byte("fake mp3 bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-", r.Header.Get("Range"))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audioData)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, http.NotFoundHandler())

	result, err := client.FetchTrack(context.Background(), server.URL+"/audio.mp3")
	require.NoError(t, err)

	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, audioData, body)
	assert.Equal(t, int64(len(audioData)), result.TotalBytes)
}

// TestFetchTrack_BadStatus tests that server errors are surfaced.
func TestFetchTrack_BadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.FetchTrack(context.Background(), server.URL+"/audio.mp3")
	require.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
}

// TestUserAgentInjected tests that every request carries the profile user agent.
func TestUserAgentInjected(t *testing.T) {
	t.Parallel()

	profile, ok := ProfileByName(DefaultAPIClientProfileName)
	require.True(t, ok)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, profile.UserAgent, r.Header.Get("User-Agent"))

		writeAPIResponse(t, w, &UserProfile{ID: 1})
	}))

	_, err := client.GetProfileInfo(context.Background())
	require.NoError(t, err)
}

// TestGetPlaylistByID tests single playlist retrieval.
func TestGetPlaylistByID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/audio.getPlaylistById", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "-100", query.Get("owner_id"))
		assert.Equal(t, "55", query.Get("playlist_id"))

		writeAPIResponse(t, w, &Playlist{
			ID:      55,
			OwnerID: -100,
			Title:   "Road Trip",
			Count:   24,
			Photo:   &PlaylistPhoto{Photo1200: "https://img.example.com/cover1200.jpg"},
		})
	}))

	playlist, err := client.GetPlaylistByID(context.Background(), -100, 55, "")
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", playlist.Title)
	assert.Equal(t, "https://img.example.com/cover1200.jpg", playlist.CoverURL())
	assert.Equal(t, "-100_55", playlist.FullID())
}

// TestPlaylistDiscovery tests the playlist listing and search methods,
// which share the paged playlist envelope and cache.
func TestPlaylistDiscovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		expectedPath string
		call         func(ctx context.Context, client Client) (*PlaylistList, error)
		checkQuery   func(t *testing.T, query url.Values)
	}{
		{
			name:         "get playlists of an owner",
			expectedPath: "/method/audio.getPlaylists",
			call: func(ctx context.Context, client Client) (*PlaylistList, error) {
				return client.GetPlaylists(ctx, -41670861, 10, 20)
			},
			checkQuery: func(t *testing.T, query url.Values) {
				t.Helper()
				assert.Equal(t, "-41670861", query.Get("owner_id"))
				assert.Equal(t, "10", query.Get("count"))
				assert.Equal(t, "20", query.Get("offset"))
			},
		},
		{
			name:         "search playlists",
			expectedPath: "/method/audio.searchPlaylists",
			call: func(ctx context.Context, client Client) (*PlaylistList, error) {
				return client.SearchPlaylists(ctx, "synthwave", 10, 0)
			},
			checkQuery: func(t *testing.T, query url.Values) {
				t.Helper()
				assert.Equal(t, "synthwave", query.Get("q"))
			},
		},
		{
			name:         "search albums",
			expectedPath: "/method/audio.searchAlbums",
			call: func(ctx context.Context, client Client) (*PlaylistList, error) {
				return client.SearchAlbums(ctx, "dark side", 10, 0)
			},
			checkQuery: func(t *testing.T, query url.Values) {
				t.Helper()
				assert.Equal(t, "dark side", query.Get("q"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			requests := 0

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++

				assert.Equal(t, tt.expectedPath, r.URL.Path)
				tt.checkQuery(t, r.URL.Query())

				writeAPIResponse(t, w, &PlaylistList{
					Count: 1,
					Items: []*Playlist{{ID: 7, OwnerID: -41670861, Title: "Found Playlist"}},
				})
			}))

			result, err := tt.call(context.Background(), client)
			require.NoError(t, err)
			require.Len(t, result.Items, 1)
			assert.Equal(t, "Found Playlist", result.Items[0].Title)

			// The identical request is served from the playlist cache.
			_, err = tt.call(context.Background(), client)
			require.NoError(t, err)
			assert.Equal(t, 1, requests)
		})
	}
}

// TestValidatePhone tests the second-factor trigger call.
func TestValidatePhone(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/auth.validatePhone", r.URL.Path)
		assert.Equal(t, "validation-sid-1", r.URL.Query().Get("sid"))

		writeAPIResponse(t, w, &PhoneValidation{Type: "sms", SID: "validation-sid-1", Delay: 60})
	}))

	validation, err := client.ValidatePhone(context.Background(), "validation-sid-1")
	require.NoError(t, err)
	assert.Equal(t, "sms", validation.Type)
	assert.Equal(t, int64(60), validation.Delay)
}

// TestAPIError_Error tests APIError formatting.
func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &APIError{Code: 5, Message: "User authorization failed"}
	assert.Equal(t, "VK API error 5: User authorization failed", err.Error())
	assert.Equal(t, "VK API error 5: User authorization failed", fmt.Sprintf("%v", err))
}
