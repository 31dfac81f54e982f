package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

const (
	// browserSlowMotionDelay is the delay between browser actions for visibility during debugging.
	browserSlowMotionDelay = 200 * time.Millisecond

	// browserCleanupDelay is the delay to wait for Chrome to release file locks before cleanup.
	browserCleanupDelay = 500 * time.Millisecond
)

// captchaViewer shows a captcha image in a visible browser window
// while the user types the answer on the console.
type captchaViewer struct {
	browser *rod.Browser
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// openCaptchaInBrowser launches a browser and navigates it to the captcha image.
// rod's fluent API panics on failure, so the whole launch is wrapped in a recover.
func openCaptchaInBrowser(ctx context.Context, captchaURL string) (viewer *captchaViewer, err error) {
	defer func() {
		if r := recover(); r != nil {
			viewer = nil
			err = fmt.Errorf("browser launch failed: %v", r)
		}
	}()

	// A throwaway profile keeps the captcha window clean
	// and avoids touching the user's real browser session.
	tempDir, err := os.MkdirTemp("", "vk-captcha-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary user data directory: %w", err)
	}

	logger.Debugf(ctx, "Using temporary profile directory: %s", tempDir)

	browserLauncher := launcher.New().
		// The user needs to see the captcha.
		Headless(false).
		UserDataDir(tempDir)

	// Prefer a system Chrome installation over downloading Chromium.
	if chromePath, exists := launcher.LookPath(); exists {
		logger.Debugf(ctx, "Using system Chrome installation at: %s", chromePath)

		browserLauncher = browserLauncher.Bin(chromePath)
	} else {
		logger.Debug(ctx, "System Chrome not found, downloading Chromium")
	}

	launcherURL := browserLauncher.MustLaunch()

	browserInstance := rod.New().ControlURL(launcherURL)
	if logger.IsDebugLevel() {
		browserInstance = browserInstance.
			Trace(true).
			SlowMotion(browserSlowMotionDelay)
	}

	browserInstance = browserInstance.MustConnect()

	// Stealth keeps the captcha endpoint from flagging the automated window.
	page := stealth.MustPage(browserInstance)
	page.MustNavigate(captchaURL)

	logger.Debugf(ctx, "Captcha opened in browser: %s", captchaURL)

	return &captchaViewer{
		browser: browserInstance,
		tempDir: tempDir,
	}, nil
}

// Close shuts the browser window and removes the temporary profile.
func (v *captchaViewer) Close(ctx context.Context) {
	if v.browser != nil {
		if err := v.browser.Close(); err != nil {
			logger.Debugf(ctx, "Browser close error (expected): %v", err)
		}
	}

	if v.tempDir != "" {
		// Give Chrome a moment to release file locks.
		time.Sleep(browserCleanupDelay)

		if err := os.RemoveAll(v.tempDir); err != nil {
			// This can fail on Windows or if Chrome hasn't fully exited.
			logger.Debugf(ctx, "Could not clean up temp directory %s: %v", v.tempDir, err)
		}
	}
}
