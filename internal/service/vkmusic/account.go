package vkmusic

import (
	"context"
	"fmt"
	"strings"

	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// checkAccount verifies the stored token by requesting the account profile.
func (s *ServiceImpl) checkAccount(ctx context.Context) error {
	profile, err := s.vkClient.GetProfileInfo(ctx)
	if err != nil {
		return fmt.Errorf("token check failed, run 'auth login' to refresh it: %w", err)
	}

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	logger.Infof(ctx, "Authorized as %s (ID %d)", name, profile.ID)

	return nil
}
