package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/service/auth"
)

// Environment variables consulted for credentials before prompting.
const (
	loginEnvVar    = "VK_LOGIN"
	passwordEnvVar = "VK_PASSWORD"
)

// ExecuteAuthLoginCommand executes the auth login command.
// It authenticates with a login and password, resolving captcha and 2FA
// demands interactively, and saves the received token to the configuration file.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config, login, password string) {
	logger.Info(ctx, "Starting authentication process")

	vkClient, err := vk.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize VK client: %v", err)
	}

	login, password, err = resolveCredentials(login, password)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read credentials: %v", err)
	}

	authService := auth.NewService(cfg, vkClient, nil)

	result, err := authService.Login(ctx, login, password)
	if err != nil {
		logger.Fatalf(ctx, "Authentication failed: %v", err)
	}

	// The token only works when presented with the same user agent,
	// so both are persisted together.
	cfg.Token = result.Token
	cfg.UserAgent = result.UserAgent

	if err = config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Authentication complete! You can now download music.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading a track:")
	logger.Info(ctx, "vk-audio-grabber https://vk.com/audio371745461_456289486")
	logger.Info(ctx, "")
	logger.Info(ctx, "Or a playlist:")
	logger.Info(ctx, "vk-audio-grabber https://vk.com/music/playlist/-2000984503_984503")
}

// ExecuteAuthCheckCommand executes the auth check command.
// It verifies the stored token and prints the account it belongs to.
func ExecuteAuthCheckCommand(ctx context.Context, cfg *config.Config) {
	vkClient, err := vk.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize VK client: %v", err)
	}

	authService := auth.NewService(cfg, vkClient, nil)

	profile, err := authService.CheckToken(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Token is not valid: %v", err)
	}

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	logger.Infof(ctx, "Token is valid, authorized as %s (ID %d)", name, profile.ID)
}

// resolveCredentials fills in the login and password from flags,
// environment variables, or interactive prompts, in that order.
func resolveCredentials(login, password string) (string, string, error) {
	var err error

	if login == "" {
		login = os.Getenv(loginEnvVar)
	}

	if password == "" {
		password = os.Getenv(passwordEnvVar)
	}

	reader := bufio.NewReader(os.Stdin)

	if login == "" {
		login, err = promptLine(reader, "Enter your login (phone or email): ")
		if err != nil {
			return "", "", err
		}
	}

	if password == "" {
		password, err = promptLine(reader, "Enter your password: ")
		if err != nil {
			return "", "", err
		}
	}

	return login, password, nil
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
