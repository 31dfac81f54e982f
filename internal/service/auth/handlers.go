package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// twoFactorAppValidationType marks codes generated by an authenticator app
// rather than delivered by SMS.
const twoFactorAppValidationType = "2fa_app"

// NewConsoleHandlers builds the default interactive handlers reading answers from stdin.
func NewConsoleHandlers(cfg *config.Config) *Handlers {
	return newConsoleHandlers(cfg, os.Stdin)
}

// newConsoleHandlers is the testable constructor with an explicit input source.
func newConsoleHandlers(cfg *config.Config, input io.Reader) *Handlers {
	reader := bufio.NewReader(input)

	return &Handlers{
		OnCaptcha: func(ctx context.Context, captchaImg string) (string, error) {
			closeViewer := presentCaptcha(ctx, cfg, captchaImg)
			defer closeViewer()

			return promptLine(reader, "Enter the captcha answer: ")
		},
		OnTwoFactor: func(ctx context.Context, validationType, phoneMask string) (string, error) {
			switch {
			case validationType == twoFactorAppValidationType:
				logger.Info(ctx, "Enter the code from your authenticator app")
			case phoneMask != "":
				logger.Infof(ctx, "A confirmation code was sent to %s", phoneMask)
			default:
				logger.Info(ctx, "A confirmation code was sent to your phone")
			}

			return promptLine(reader, "Enter the code: ")
		},
	}
}

// presentCaptcha shows the captcha image to the user and returns a cleanup func.
// Browser presentation is best effort: any failure falls back to printing the URL.
func presentCaptcha(ctx context.Context, cfg *config.Config, captchaImg string) func() {
	if cfg.CaptchaInBrowser {
		viewer, err := openCaptchaInBrowser(ctx, captchaImg)
		if err == nil {
			return func() { viewer.Close(ctx) }
		}

		logger.Warnf(ctx, "Could not open captcha in browser: %v", err)
	}

	logger.Infof(ctx, "Open this captcha in your browser: %s", captchaImg)

	return func() {}
}

// promptLine prints a prompt and reads one trimmed line from the reader.
func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}
