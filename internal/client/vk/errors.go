package vk

import (
	"errors"
	"fmt"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrAccessDenied indicates the owner's audio is private or otherwise restricted.
	ErrAccessDenied = errors.New("access to audio is denied")
	// ErrTooManyRequests indicates the API rate limit was hit even after retries.
	ErrTooManyRequests = errors.New("too many requests")
	// ErrEmptyTokenResponse indicates the token endpoint replied without a token or an error.
	ErrEmptyTokenResponse = errors.New("token endpoint returned neither token nor error")
)

// APIError is the error object of a VK API method response envelope.
type APIError struct {
	// Code is the numeric VK error code.
	Code int64 `json:"error_code"`
	// Message is the human-readable error description.
	Message string `json:"error_msg"`
	// CaptchaSID identifies the captcha to solve, when Code is a captcha error.
	CaptchaSID string `json:"captcha_sid,omitempty"`
	// CaptchaImg is the captcha image URL, when Code is a captcha error.
	CaptchaImg string `json:"captcha_img,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("VK API error %d: %s", e.Code, e.Message)
}

// Is maps well-known VK error codes onto the package sentinels,
// so callers can match with errors.Is instead of inspecting codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAccessDenied:
		return e.Code == errorCodeAccessDenied || e.Code == errorCodeAudioAccessDenied
	case ErrTooManyRequests:
		return e.Code == errorCodeTooManyRequests || e.Code == errorCodeFloodControl
	default:
		return false
	}
}

// AuthError is the error payload of the OAuth token endpoint.
// Captcha and phone-validation demands arrive through this type,
// so it doubles as the side-channel descriptor during login.
type AuthError struct {
	// Code is the OAuth error code, e.g. "need_captcha" or "invalid_client".
	Code string `json:"error"`
	// Description is the human-readable error description.
	Description string `json:"error_description"`
	// Type refines the error, e.g. "password_bruteforce_attempt" under flood control.
	Type string `json:"error_type"`
	// CaptchaSID identifies the captcha to solve.
	CaptchaSID string `json:"captcha_sid"`
	// CaptchaImg is the captcha image URL to present to the user.
	CaptchaImg string `json:"captcha_img"`
	// ValidationType is the kind of second factor, "2fa_sms" or "2fa_app".
	ValidationType string `json:"validation_type"`
	// ValidationSID is passed to auth.validatePhone to trigger code delivery.
	ValidationSID string `json:"validation_sid"`
	// PhoneMask is the masked phone number the code is sent to.
	PhoneMask string `json:"phone_mask"`
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("VK auth error: %s", e.Code)
	}

	return fmt.Sprintf("VK auth error %s: %s", e.Code, e.Description)
}
