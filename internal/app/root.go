package app

import (
	"context"

	"github.com/vkaudiotools/vk-audio-grabber/internal/client/vk"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/service/vkmusic"
)

// ExecuteRootCommand is the entry point for the download command.
// It initializes the VK client, sets up the necessary service components,
// and starts the download process for the provided URLs.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, urls []string) {
	s := newMusicService(ctx, cfg)

	// Ensure statistics are ALWAYS printed, even on panic or os.Exit bypass.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	s.DownloadURLs(ctx, urls)
}

// newMusicService assembles the audio service with all its components.
func newMusicService(ctx context.Context, cfg *config.Config) vkmusic.Service {
	vkClient, err := vk.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize VK client: %v", err)
	}

	urlProcessor := vkmusic.NewURLProcessor()
	templateManager := vkmusic.NewTemplateManager(ctx, cfg)
	tagProcessor := vkmusic.NewTagProcessor()

	return vkmusic.NewService(cfg, vkClient, urlProcessor, templateManager, tagProcessor)
}
