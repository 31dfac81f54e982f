package vk

import "strings"

// APIClientProfile identifies the application the client impersonates.
// Audio methods are only served to whitelisted official applications,
// so the profile's user agent must accompany its OAuth credentials.
type APIClientProfile struct {
	// Name is the profile key used in the configuration.
	Name string
	// ClientID is the application's OAuth client ID.
	ClientID string
	// ClientSecret is the application's OAuth client secret.
	ClientSecret string
	// UserAgent is the User-Agent string the application sends.
	UserAgent string
}

// DefaultAPIClientProfileName is the profile used when the configuration names none.
const DefaultAPIClientProfileName = "kate"

//nolint:gochecknoglobals // Immutable registry of known application profiles.
var apiClientProfiles = map[string]*APIClientProfile{
	"kate": {
		Name:         "kate",
		ClientID:     "2685278",
		ClientSecret: "lxhD8OD7dMsqtXIm5IUY",
		UserAgent:    "KateMobileAndroid/56 lite-460 (Android 4.4.2; SDK 19; x86; unknown Android SDK built for x86; en)",
	},
}

// ProfileByName returns the registered profile for the given name.
// The lookup is case-insensitive.
func ProfileByName(name string) (*APIClientProfile, bool) {
	profile, ok := apiClientProfiles[strings.ToLower(strings.TrimSpace(name))]

	return profile, ok
}
