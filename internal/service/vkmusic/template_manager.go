package vkmusic

//go:generate $MOCKGEN -source=template_manager.go -destination=mocks/template_manager_mock.go

import (
	"bytes"
	"context"
	"html"
	"html/template"

	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

// TemplateManager defines the interface for managing templates used to generate filenames and folder names.
type TemplateManager interface {
	// GetTrackFilename generates a filename for a track based on its tags.
	// Tracks inside playlist folders use a different template with a padded track number.
	GetTrackFilename(ctx context.Context, isPlaylist bool, trackTags map[string]string) string

	// GetPlaylistFolderName generates a folder name for a playlist based on its tags.
	GetPlaylistFolderName(ctx context.Context, tags map[string]string) string
}

// TemplateManagerImpl implements the TemplateManager interface.
type TemplateManagerImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// trackFilenameTemplate is the template for track filenames.
	trackFilenameTemplate *template.Template
	// playlistFilenameTemplate is the template for playlist track filenames.
	playlistFilenameTemplate *template.Template
	// playlistFolderTemplate is the template for playlist folder names.
	playlistFolderTemplate *template.Template
	// defaultTrackFilenameTemplate is the fallback template for track filenames.
	defaultTrackFilenameTemplate *template.Template
	// defaultPlaylistFilenameTemplate is the fallback template for playlist track filenames.
	defaultPlaylistFilenameTemplate *template.Template
	// defaultPlaylistFolderTemplate is the fallback template for playlist folder names.
	defaultPlaylistFolderTemplate *template.Template
}

// NewTemplateManager creates and returns a new instance of TemplateManagerImpl.
// It initializes templates from the configuration and falls back to default templates if parsing fails.
func NewTemplateManager(ctx context.Context, cfg *config.Config) TemplateManager {
	// Initialize default templates.
	defaultTrackFilenameTemplate := template.Must(
		template.New("defaultTrackFilenameTemplate").Parse(config.DefaultTrackFilenameTemplate))
	defaultPlaylistFilenameTemplate := template.Must(
		template.New("defaultPlaylistFilenameTemplate").Parse(config.DefaultPlaylistFilenameTemplate))
	defaultPlaylistFolderTemplate := template.Must(
		template.New("defaultPlaylistFolderTemplate").Parse(config.DefaultPlaylistFolderTemplate))

	// Parse custom templates from the configuration.
	trackFilenameTemplate, err := template.New("trackFilenameTemplate").Parse(cfg.TrackFilenameTemplate)
	if err != nil {
		logger.Errorf(ctx, "Failed to parse track filename template, using default: %v", err)
	}

	playlistFilenameTemplate, err := template.New("playlistFilenameTemplate").Parse(cfg.PlaylistFilenameTemplate)
	if err != nil {
		logger.Errorf(ctx, "Failed to parse playlist filename template, using default: %v", err)
	}

	playlistFolderTemplate, err := template.New("playlistFolderTemplate").Parse(cfg.PlaylistFolderTemplate)
	if err != nil {
		logger.Errorf(ctx, "Failed to parse playlist folder template, using default: %v", err)
	}

	return &TemplateManagerImpl{
		cfg:                             cfg,
		trackFilenameTemplate:           trackFilenameTemplate,
		playlistFilenameTemplate:        playlistFilenameTemplate,
		playlistFolderTemplate:          playlistFolderTemplate,
		defaultTrackFilenameTemplate:    defaultTrackFilenameTemplate,
		defaultPlaylistFilenameTemplate: defaultPlaylistFilenameTemplate,
		defaultPlaylistFolderTemplate:   defaultPlaylistFolderTemplate,
	}
}

// GetTrackFilename generates a filename for a track based on its tags.
func (s *TemplateManagerImpl) GetTrackFilename(
	ctx context.Context,
	isPlaylist bool,
	trackTags map[string]string,
) string {
	// Select the appropriate template based on whether the track is part of a playlist.
	textBuilder, defaultTextBuilder := s.trackFilenameTemplate, s.defaultTrackFilenameTemplate
	if isPlaylist {
		textBuilder, defaultTextBuilder = s.playlistFilenameTemplate, s.defaultPlaylistFilenameTemplate
	}

	return s.executeTemplate(ctx, textBuilder, defaultTextBuilder, trackTags)
}

// GetPlaylistFolderName generates a folder name for a playlist based on its tags.
func (s *TemplateManagerImpl) GetPlaylistFolderName(ctx context.Context, tags map[string]string) string {
	return s.executeTemplate(ctx, s.playlistFolderTemplate, s.defaultPlaylistFolderTemplate, tags)
}

// executeTemplate runs the custom template, falling back to the default on failure.
func (s *TemplateManagerImpl) executeTemplate(
	ctx context.Context,
	textBuilder, defaultTextBuilder *template.Template,
	tags map[string]string,
) string {
	var buffer bytes.Buffer

	if textBuilder != nil {
		if err := textBuilder.Execute(&buffer, tags); err != nil {
			logger.Errorf(ctx, "Failed to execute template, using default: %v", err)

			// Fall back to the default template if execution fails.
			buffer.Reset()
			_ = defaultTextBuilder.Execute(&buffer, tags) //nolint:errcheck // Default template is always valid.
		}
	} else {
		// Use default template if custom template is nil.
		_ = defaultTextBuilder.Execute(&buffer, tags) //nolint:errcheck // Default template is always valid.
	}

	// Unescape HTML entities in the generated name.
	return html.UnescapeString(buffer.String())
}
