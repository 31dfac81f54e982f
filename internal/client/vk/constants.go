package vk

const (
	// apiVersion is the VK API version sent with every request.
	apiVersion = "5.131"

	// audioScope is the OAuth scope requested during authentication.
	audioScope = "audio,offline"
)

// VK API method names.
const (
	methodAccountGetProfileInfo = "account.getProfileInfo"
	methodAudioGet              = "audio.get"
	methodAudioGetByID          = "audio.getById"
	methodAudioGetCount         = "audio.getCount"
	methodAudioGetPlaylistByID  = "audio.getPlaylistById"
	methodAudioGetPlaylists     = "audio.getPlaylists"
	methodAudioGetPopular       = "audio.getPopular"
	methodAudioGetRecs          = "audio.getRecommendations"
	methodAudioSearch           = "audio.search"
	methodAudioSearchAlbums     = "audio.searchAlbums"
	methodAudioSearchPlaylists  = "audio.searchPlaylists"
	methodAuthValidatePhone     = "auth.validatePhone"
)

// Server-side limits on the count parameter, per method family.
const (
	maxAudiosCount          = 6000
	maxSearchCount          = 300
	maxPopularCount         = 1000
	maxRecommendationsCount = 1000
	maxPlaylistsCount       = 200

	defaultAudiosCount    = 100
	defaultPlaylistsCount = 50
)

// VK API error codes the client reacts to.
const (
	errorCodeTooManyRequests   = 6
	errorCodeFloodControl      = 9
	errorCodeAccessDenied      = 15
	errorCodeAudioAccessDenied = 201
)

const (
	// searchCacheSize caps cached search result pages.
	searchCacheSize = 64
	// audiosCacheSize caps cached audio.get pages.
	// A full library fetch pages through the same owner repeatedly.
	audiosCacheSize = 128
	// playlistsCacheSize caps cached playlist listing pages.
	playlistsCacheSize = 64
)

// OAuth error codes returned by the token endpoint.
const (
	// AuthErrorNeedCaptcha is returned when the request must be retried with a captcha answer.
	AuthErrorNeedCaptcha = "need_captcha"
	// AuthErrorNeedValidation is returned when a second factor is required.
	AuthErrorNeedValidation = "need_validation"
	// AuthErrorInvalidClient is returned for wrong login or password.
	AuthErrorInvalidClient = "invalid_client"
	// AuthErrorInvalidRequest is returned for a wrong second-factor code.
	AuthErrorInvalidRequest = "invalid_request"
)

// AuthTypePasswordBruteforce marks the flood-control variant of an auth failure.
const AuthTypePasswordBruteforce = "password_bruteforce_attempt"
