package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// oauthTokenURI is the URI path of the OAuth token endpoint.
const oauthTokenURI = "token"

// RequestToken performs the OAuth password grant against the token endpoint.
// Captcha and second-factor demands come back as an *AuthError,
// which the caller answers by retrying with the corresponding
// TokenRequest fields filled in.
func (c *ClientImpl) RequestToken(ctx context.Context, tokenRequest *TokenRequest) (*TokenResponse, error) {
	route, err := url.JoinPath(c.oauthBaseURL, oauthTokenURI)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, route, http.NoBody)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("grant_type", "password")
	query.Set("client_id", c.profile.ClientID)
	query.Set("client_secret", c.profile.ClientSecret)
	query.Set("username", tokenRequest.Login)
	query.Set("password", tokenRequest.Password)
	query.Set("scope", audioScope)
	query.Set("2fa_supported", "1")
	query.Set("force_sms", "1")
	query.Set("v", apiVersion)

	if tokenRequest.CaptchaSID != "" {
		query.Set("captcha_sid", tokenRequest.CaptchaSID)
		query.Set("captcha_key", tokenRequest.CaptchaKey)
	}

	if tokenRequest.Code != "" {
		query.Set("code", tokenRequest.Code)
	}

	request.URL.RawQuery = query.Encode()

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	// The endpoint signals auth errors through the payload,
	// with a non-200 status accompanying most of them.
	// The payload is authoritative, the status is not.
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var tokenResponse TokenResponse
	if err = json.Unmarshal(body, &tokenResponse); err == nil && tokenResponse.AccessToken != "" {
		return &tokenResponse, nil
	}

	var authError AuthError
	if err = json.Unmarshal(body, &authError); err != nil {
		return nil, fmt.Errorf("failed to decode token endpoint response: %w", err)
	}

	if authError.Code == "" {
		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
		}

		return nil, ErrEmptyTokenResponse
	}

	return nil, &authError
}

// UserAgent returns the User-Agent string the client presents.
// It is persisted alongside the token, which is only valid with it.
func (c *ClientImpl) UserAgent() string {
	if c.cfg.UserAgent != "" {
		return c.cfg.UserAgent
	}

	return c.profile.UserAgent
}
