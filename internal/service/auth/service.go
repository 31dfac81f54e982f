package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// maxAuthAttempts bounds the captcha/2FA answer loop.
// Every side-channel answer costs one attempt, so a user mistyping
// a captcha a few times still fits; a misbehaving server does not spin forever.
const maxAuthAttempts = 10

var (
	// ErrInvalidCredentials is returned for a wrong login or password.
	ErrInvalidCredentials = errors.New("login or password is incorrect")

	// ErrFloodControl is returned when VK temporarily blocks password attempts.
	ErrFloodControl = errors.New("too many authentication attempts, try again later")

	// ErrTooManyAuthAttempts is returned when the side-channel loop exceeds its bound.
	ErrTooManyAuthAttempts = errors.New("authentication did not complete after repeated attempts")

	// ErrMissingCaptchaHandler is returned when a captcha is demanded but no handler is set.
	ErrMissingCaptchaHandler = errors.New("captcha required but no captcha handler configured")

	// ErrMissingTwoFactorHandler is returned when a code is demanded but no handler is set.
	ErrMissingTwoFactorHandler = errors.New("second factor required but no 2FA handler configured")
)

// Handlers supplies the side-channel answers the OAuth flow may demand.
type Handlers struct {
	// OnCaptcha presents the captcha image at the given URL and returns the user's answer.
	OnCaptcha func(ctx context.Context, captchaImg string) (string, error)
	// OnTwoFactor asks the user for the second-factor code.
	// validationType is "2fa_sms" or "2fa_app"; phoneMask is the masked target number.
	OnTwoFactor func(ctx context.Context, validationType, phoneMask string) (string, error)
}

// LoginResult is the outcome of a successful authentication.
type LoginResult struct {
	// Token is the bearer token for audio API calls.
	Token string
	// UserID is the authenticated account identifier.
	UserID int64
	// UserAgent is the User-Agent string the token is bound to.
	UserAgent string
}

// Service provides interactive token retrieval.
type Service interface {
	// Login performs the password grant, resolving captcha and 2FA demands interactively.
	Login(ctx context.Context, login, password string) (*LoginResult, error)
	// CheckToken verifies the configured token by requesting the account profile.
	CheckToken(ctx context.Context) (*vk.UserProfile, error)
}

// ServiceImpl implements Service on top of the VK client.
type ServiceImpl struct {
	cfg      *config.Config
	client   vk.Client
	handlers *Handlers
}

// NewService creates a new token retrieval service.
// Nil handlers default to the console prompts.
func NewService(cfg *config.Config, client vk.Client, handlers *Handlers) *ServiceImpl {
	if handlers == nil {
		handlers = NewConsoleHandlers(cfg)
	}

	return &ServiceImpl{
		cfg:      cfg,
		client:   client,
		handlers: handlers,
	}
}

// Login performs the password grant, resolving captcha and 2FA demands interactively.
// Wrong second-factor codes re-prompt; wrong credentials and flood control fail terminally.
func (s *ServiceImpl) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	tokenRequest := &vk.TokenRequest{
		Login:    login,
		Password: password,
	}

	for attempt := 0; attempt < maxAuthAttempts; attempt++ {
		tokenResponse, err := s.client.RequestToken(ctx, tokenRequest)
		if err == nil {
			logger.Infof(ctx, "Authenticated as user %d", tokenResponse.UserID)

			return &LoginResult{
				Token:     tokenResponse.AccessToken,
				UserID:    tokenResponse.UserID,
				UserAgent: s.client.UserAgent(),
			}, nil
		}

		var authError *vk.AuthError
		if !errors.As(err, &authError) {
			return nil, fmt.Errorf("token request failed: %w", err)
		}

		if err = s.answerAuthDemand(ctx, tokenRequest, authError); err != nil {
			return nil, err
		}
	}

	return nil, ErrTooManyAuthAttempts
}

// answerAuthDemand fills the token request with the answer to a side-channel demand,
// or fails with a terminal error when the demand cannot be answered.
func (s *ServiceImpl) answerAuthDemand(
	ctx context.Context,
	tokenRequest *vk.TokenRequest,
	authError *vk.AuthError,
) error {
	switch authError.Code {
	case vk.AuthErrorNeedCaptcha:
		return s.answerCaptcha(ctx, tokenRequest, authError)
	case vk.AuthErrorNeedValidation:
		return s.answerTwoFactor(ctx, tokenRequest, authError, true)
	case vk.AuthErrorInvalidRequest:
		// Wrong second-factor code. The validation session is still live,
		// so re-prompt without triggering another code delivery.
		logger.Warn(ctx, "The code was rejected, please try again")

		return s.answerTwoFactor(ctx, tokenRequest, authError, false)
	case vk.AuthErrorInvalidClient:
		if authError.Type == vk.AuthTypePasswordBruteforce {
			return fmt.Errorf("%w: %s", ErrFloodControl, authError.Description)
		}

		return fmt.Errorf("%w: %s", ErrInvalidCredentials, authError.Description)
	default:
		return fmt.Errorf("authentication failed: %w", authError)
	}
}

func (s *ServiceImpl) answerCaptcha(
	ctx context.Context,
	tokenRequest *vk.TokenRequest,
	authError *vk.AuthError,
) error {
	if s.handlers.OnCaptcha == nil {
		return ErrMissingCaptchaHandler
	}

	captchaKey, err := s.handlers.OnCaptcha(ctx, authError.CaptchaImg)
	if err != nil {
		return fmt.Errorf("captcha handler failed: %w", err)
	}

	tokenRequest.CaptchaSID = authError.CaptchaSID
	tokenRequest.CaptchaKey = captchaKey

	return nil
}

func (s *ServiceImpl) answerTwoFactor(
	ctx context.Context,
	tokenRequest *vk.TokenRequest,
	authError *vk.AuthError,
	triggerDelivery bool,
) error {
	if s.handlers.OnTwoFactor == nil {
		return ErrMissingTwoFactorHandler
	}

	if triggerDelivery && authError.ValidationSID != "" {
		validation, err := s.client.ValidatePhone(ctx, authError.ValidationSID)
		if err != nil {
			return fmt.Errorf("failed to trigger code delivery: %w", err)
		}

		logger.Infof(ctx, "Validation code requested via %s", validation.Type)
	}

	code, err := s.handlers.OnTwoFactor(ctx, authError.ValidationType, authError.PhoneMask)
	if err != nil {
		return fmt.Errorf("2FA handler failed: %w", err)
	}

	tokenRequest.Code = code

	return nil
}

// CheckToken verifies the configured token by requesting the account profile.
func (s *ServiceImpl) CheckToken(ctx context.Context) (*vk.UserProfile, error) {
	profile, err := s.client.GetProfileInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("token check failed: %w", err)
	}

	return profile, nil
}
