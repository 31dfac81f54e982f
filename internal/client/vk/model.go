package vk

import (
	"fmt"
	"io"
)

// Track represents a single audio item as returned by the audio.* methods.
type Track struct {
	// ID is the track identifier, unique within the owner.
	ID int64 `json:"id"`
	// OwnerID is the identifier of the user or community owning the track.
	OwnerID int64 `json:"owner_id"`
	// Artist is the performer name.
	Artist string `json:"artist"`
	// Title is the track title.
	Title string `json:"title"`
	// Subtitle is an optional title refinement (remix, version).
	Subtitle string `json:"subtitle,omitempty"`
	// Duration is the track length in seconds.
	Duration int64 `json:"duration"`
	// URL is the direct stream URL. Empty when the track is unavailable;
	// an HLS playlist URL (index.m3u8) when only segmented streaming is offered.
	URL string `json:"url"`
	// Date is the Unix timestamp the track was added.
	Date int64 `json:"date,omitempty"`
	// Album describes the album the track belongs to, when VK reports one.
	Album *TrackAlbum `json:"album,omitempty"`
}

// FullID returns the "{owner}_{id}" form used by VK to address a track.
func (t *Track) FullID() string {
	return fmt.Sprintf("%d_%d", t.OwnerID, t.ID)
}

// TrackAlbum is the album reference embedded in a track item.
type TrackAlbum struct {
	// ID is the album identifier.
	ID int64 `json:"id"`
	// OwnerID is the album owner.
	OwnerID int64 `json:"owner_id"`
	// Title is the album title.
	Title string `json:"title"`
	// AccessKey grants access to albums outside the requester's library.
	AccessKey string `json:"access_key"`
}

// Playlist represents a VK audio playlist or album.
type Playlist struct {
	// ID is the playlist identifier, unique within the owner.
	ID int64 `json:"id"`
	// OwnerID is the identifier of the user or community owning the playlist.
	OwnerID int64 `json:"owner_id"`
	// Title is the playlist title.
	Title string `json:"title"`
	// Description is the playlist description.
	Description string `json:"description"`
	// Count is the number of tracks in the playlist.
	Count int64 `json:"count"`
	// Followers is the number of users following the playlist.
	Followers int64 `json:"followers"`
	// AccessKey grants access to playlists outside the requester's library.
	AccessKey string `json:"access_key"`
	// Photo holds the playlist cover in several sizes.
	Photo *PlaylistPhoto `json:"photo,omitempty"`
}

// FullID returns the "{owner}_{id}" form used by VK to address a playlist.
func (p *Playlist) FullID() string {
	return fmt.Sprintf("%d_%d", p.OwnerID, p.ID)
}

// CoverURL returns the largest available cover image URL, or an empty string.
func (p *Playlist) CoverURL() string {
	if p.Photo == nil {
		return ""
	}

	if p.Photo.Photo1200 != "" {
		return p.Photo.Photo1200
	}

	return p.Photo.Photo300
}

// PlaylistPhoto holds playlist cover URLs by size.
type PlaylistPhoto struct {
	// Photo300 is the 300px cover URL.
	Photo300 string `json:"photo_300"`
	// Photo1200 is the 1200px cover URL.
	Photo1200 string `json:"photo_1200"`
}

// UserProfile is the account.getProfileInfo payload.
type UserProfile struct {
	// ID is the account identifier.
	ID int64 `json:"id"`
	// FirstName is the account holder's first name.
	FirstName string `json:"first_name"`
	// LastName is the account holder's last name.
	LastName string `json:"last_name"`
	// Photo200 is the 200px avatar URL.
	Photo200 string `json:"photo_200"`
	// Phone is the masked phone number bound to the account.
	Phone string `json:"phone"`
}

// AudioList is the paged envelope of audio.get, audio.search and audio.getRecommendations.
type AudioList struct {
	// Count is the total number of matching tracks, not the page size.
	Count int64 `json:"count"`
	// Items is the current page of tracks.
	Items []*Track `json:"items"`
}

// PlaylistList is the paged envelope of the playlist listing and search methods.
type PlaylistList struct {
	// Count is the total number of matching playlists.
	Count int64 `json:"count"`
	// Items is the current page of playlists.
	Items []*Playlist `json:"items"`
}

// TokenResponse is the success payload of the OAuth token endpoint.
type TokenResponse struct {
	// AccessToken is the bearer token for audio API calls.
	AccessToken string `json:"access_token"`
	// ExpiresIn is the token lifetime in seconds, 0 for non-expiring tokens.
	ExpiresIn int64 `json:"expires_in"`
	// UserID is the authenticated account identifier.
	UserID int64 `json:"user_id"`
}

// TokenRequest carries the credentials and side-channel answers for RequestToken.
type TokenRequest struct {
	// Login is the account login (phone or e-mail).
	Login string
	// Password is the account password.
	Password string
	// Code is the second-factor code, when requested.
	Code string
	// CaptchaSID identifies the captcha being answered.
	CaptchaSID string
	// CaptchaKey is the captcha answer.
	CaptchaKey string
}

// PhoneValidation is the auth.validatePhone payload.
type PhoneValidation struct {
	// Type is the delivery channel of the validation code.
	Type string `json:"type"`
	// SID identifies the validation session.
	SID string `json:"sid"`
	// Delay is the number of seconds before the code can be re-requested.
	Delay int64 `json:"delay"`
}

// GetAudiosRequest parameterizes an audio.get call.
type GetAudiosRequest struct {
	// OwnerID is the user or community whose audios are listed.
	OwnerID int64
	// AlbumID narrows the listing to one playlist when non-zero.
	AlbumID int64
	// AccessKey grants access to a playlist outside the requester's library.
	AccessKey string
	// Count is the page size; clamped to the server maximum.
	Count int64
	// Offset is the listing offset.
	Offset int64
}

// SearchAudiosRequest parameterizes an audio.search call.
type SearchAudiosRequest struct {
	// Query is the search text.
	Query string
	// Count is the page size; clamped to the server maximum.
	Count int64
	// Offset is the listing offset.
	Offset int64
}

// GetRecommendationsRequest parameterizes an audio.getRecommendations call.
type GetRecommendationsRequest struct {
	// UserID requests recommendations for a specific user; 0 means the token owner.
	UserID int64
	// TargetAudio seeds recommendations with a "{owner}_{id}" track reference.
	TargetAudio string
	// Count is the page size; clamped to the server maximum.
	Count int64
	// Offset is the listing offset.
	Offset int64
}

// FetchTrackResult wraps a track stream together with its reported size.
type FetchTrackResult struct {
	// Body is the audio stream. The caller owns closing it.
	Body io.ReadCloser
	// TotalBytes is the Content-Length of the stream, -1 when unknown.
	TotalBytes int64
}
