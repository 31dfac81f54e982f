package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/vkaudiotools/vk-audio-grabber/internal/constants"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// Token is the VK bearer token obtained through "auth login".
	Token string `mapstructure:"token"`
	// UserAgent is the User-Agent string bound to the token.
	// Audio methods reject a token presented with a foreign user agent.
	UserAgent string `mapstructure:"user_agent"`
	// APIClient names the application profile used for authentication.
	APIClient string `mapstructure:"api_client"`
	// OutputPath is the directory path where downloaded files will be saved.
	OutputPath string `mapstructure:"output_path"`
	// TrackFilenameTemplate is the template for naming individual track files.
	TrackFilenameTemplate string `mapstructure:"track_filename_template"`
	// PlaylistFilenameTemplate is the template for naming track files inside playlist folders.
	PlaylistFilenameTemplate string `mapstructure:"playlist_filename_template"`
	// PlaylistFolderTemplate is the template for naming playlist folders.
	PlaylistFolderTemplate string `mapstructure:"playlist_folder_template"`
	// ReplaceTracks indicates whether to replace existing track files.
	ReplaceTracks bool `mapstructure:"replace_tracks"`
	// ReplaceCovers indicates whether to replace existing cover art files.
	ReplaceCovers bool `mapstructure:"replace_covers"`
	// CaptchaInBrowser indicates whether to present login captchas in a browser window.
	CaptchaInBrowser bool `mapstructure:"captcha_in_browser"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// LogFile duplicates log output into a size-rotated file when set.
	LogFile string `mapstructure:"log_file"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// ResultsCount is the default page size for search and listing commands.
	ResultsCount int64 `mapstructure:"results_count"`
	// ResultsOffset is the default page offset for search and listing commands.
	ResultsOffset int64 `mapstructure:"results_offset"`
	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength int64 `mapstructure:"max_folder_name_length"`
	// RetryAttemptsCount is the number of attempts for rate-limited API calls.
	RetryAttemptsCount int64 `mapstructure:"retry_attempts_count"`
	// MaxDownloadPause is the maximum pause duration between downloads.
	MaxDownloadPause string `mapstructure:"max_download_pause"`
	// MinRetryPause is the minimum pause duration before retrying.
	MinRetryPause string `mapstructure:"min_retry_pause"`
	// MaxRetryPause is the maximum pause duration before retrying.
	MaxRetryPause string `mapstructure:"max_retry_pause"`
	// MaxConcurrentDownloads is the maximum number of tracks to download simultaneously.
	MaxConcurrentDownloads int64 `mapstructure:"max_concurrent_downloads"`
	// APIBaseURL is the base URL for VK API methods.
	// Normally left unset so the default VK endpoint is used.
	APIBaseURL string `mapstructure:"api_base_url"`
	// OAuthBaseURL is the base URL for the VK OAuth endpoint.
	// Normally left unset so the default VK endpoint is used.
	OAuthBaseURL string `mapstructure:"oauth_base_url"`
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes.
	ParsedDownloadSpeedLimit int64
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxDownloadPause is the parsed maximum download pause duration.
	ParsedMaxDownloadPause time.Duration
	// ParsedMinRetryPause is the parsed minimum retry pause duration.
	ParsedMinRetryPause time.Duration
	// ParsedMaxRetryPause is the parsed maximum retry pause duration.
	ParsedMaxRetryPause time.Duration
}

const (
	// APIBaseURL is the base URL for VK API method calls.
	APIBaseURL = "https://api.vk.com/method"

	// OAuthBaseURL is the base URL for the VK OAuth token endpoint.
	OAuthBaseURL = "https://oauth.vk.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".vk-audio-grabber.yaml"

	// DefaultTrackFilenameTemplate is the default template for naming downloaded track files.
	DefaultTrackFilenameTemplate = "{{.trackTitle}} - {{.trackArtist}}"

	// DefaultPlaylistFilenameTemplate is the default template for naming downloaded track files from playlists.
	DefaultPlaylistFilenameTemplate = "{{.trackNumberPad}} - {{.trackArtist}} - {{.trackTitle}}"

	// DefaultPlaylistFolderTemplate is the default template for naming folders for downloaded playlists.
	DefaultPlaylistFolderTemplate = "{{.playlistTitle}}"

	// DefaultMaxLogLength is the default maximum size (in bytes) for logged HTTP dumps.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB
)

// Static error definitions for better error handling.
var (
	// ErrEmptyToken indicates that the access token is missing.
	ErrEmptyToken = errors.New("access token cannot be empty, run 'auth login' first")
	// ErrUnknownAPIClient indicates that the API client profile is not recognized.
	ErrUnknownAPIClient = errors.New("unknown api_client profile")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidResultsCount indicates that the results count is invalid.
	ErrInvalidResultsCount = errors.New("results count must be a positive integer")
	// ErrInvalidRetryAttempts indicates that the retry attempts count is invalid.
	ErrInvalidRetryAttempts = errors.New("retry attempts count must be a positive integer")
	// ErrInvalidMaxDownloadPause indicates that the max download pause duration is invalid.
	ErrInvalidMaxDownloadPause = errors.New("max_download_pause must be positive")
	// ErrInvalidMinRetryPause indicates that the min retry pause duration is invalid.
	ErrInvalidMinRetryPause = errors.New("min_retry_pause must be positive")
	// ErrInvalidMaxRetryPause indicates that the max retry pause duration is invalid.
	ErrInvalidMaxRetryPause = errors.New("max_retry_pause must be positive")
	// ErrInvalidConcurrentDownloads indicates that the concurrent downloads count is invalid.
	ErrInvalidConcurrentDownloads = errors.New("max concurrent downloads must be a positive integer")
)

// DefaultConfig returns the configuration used when no config file exists yet.
// The API client profile is left empty so the client picks its own default.
func DefaultConfig() *Config {
	//nolint:exhaustruct // Unset fields intentionally default to their zero values.
	return &Config{
		OutputPath:               "downloads",
		TrackFilenameTemplate:    DefaultTrackFilenameTemplate,
		PlaylistFilenameTemplate: DefaultPlaylistFilenameTemplate,
		PlaylistFolderTemplate:   DefaultPlaylistFolderTemplate,
		LogLevel:                 "info",
		ResultsCount:             50,
		MaxFolderNameLength:      100,
		RetryAttemptsCount:       3,
		MaxDownloadPause:         "3s",
		MinRetryPause:            "1s",
		MaxRetryPause:            "10s",
		MaxConcurrentDownloads:   1,
	}
}

// LoadConfig loads configuration settings from a YAML file.
// Keys absent from the file fall back to DefaultConfig values, because the
// file written by 'auth login' contains only the credentials.
// A missing default config file yields DefaultConfig, so the auth commands
// can run before the file is first written. An explicitly named file must exist.
func LoadConfig(configFilename string) (*Config, error) {
	missingFileOK := configFilename == ""
	if missingFileOK {
		configFilename = DefaultConfigFilename
	}

	applyDefaults(DefaultConfig())
	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		if missingFileOK && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}

		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults registers fallback values with viper for keys the file may omit.
func applyDefaults(defaults *Config) {
	viper.SetDefault("output_path", defaults.OutputPath)
	viper.SetDefault("track_filename_template", defaults.TrackFilenameTemplate)
	viper.SetDefault("playlist_filename_template", defaults.PlaylistFilenameTemplate)
	viper.SetDefault("playlist_folder_template", defaults.PlaylistFolderTemplate)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("results_count", defaults.ResultsCount)
	viper.SetDefault("max_folder_name_length", defaults.MaxFolderNameLength)
	viper.SetDefault("retry_attempts_count", defaults.RetryAttemptsCount)
	viper.SetDefault("max_download_pause", defaults.MaxDownloadPause)
	viper.SetDefault("min_retry_pause", defaults.MinRetryPause)
	viper.SetDefault("max_retry_pause", defaults.MaxRetryPause)
	viper.SetDefault("max_concurrent_downloads", defaults.MaxConcurrentDownloads)
}

// ValidateConfig checks the configuration for validity and sets derived fields.
// Token presence is checked separately because the auth commands
// must be able to run before a token exists.
//
//nolint:funlen,gocognit,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = APIBaseURL
	}

	if strings.TrimSpace(cfg.OAuthBaseURL) == "" {
		cfg.OAuthBaseURL = OAuthBaseURL
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	// io.CopyN accepts only int64 so we transform it safely in order to use it later.
	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	if cfg.ResultsCount <= 0 {
		return ErrInvalidResultsCount
	}

	if cfg.RetryAttemptsCount <= 0 {
		return ErrInvalidRetryAttempts
	}

	cfg.ParsedMaxDownloadPause, err = time.ParseDuration(cfg.MaxDownloadPause)
	if err != nil {
		return fmt.Errorf("failed to parse max download pause: %w", err)
	}

	if cfg.ParsedMaxDownloadPause <= 0 {
		return ErrInvalidMaxDownloadPause
	}

	cfg.ParsedMinRetryPause, err = time.ParseDuration(cfg.MinRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse min retry pause: %w", err)
	}

	if cfg.ParsedMinRetryPause <= 0 {
		return ErrInvalidMinRetryPause
	}

	cfg.ParsedMaxRetryPause, err = time.ParseDuration(cfg.MaxRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse max retry pause: %w", err)
	}

	if cfg.ParsedMaxRetryPause <= 0 {
		return ErrInvalidMaxRetryPause
	}

	if cfg.MaxConcurrentDownloads <= 0 {
		return ErrInvalidConcurrentDownloads
	}

	return nil
}

// RequireToken ensures a token is present before API-bound commands run.
func RequireToken(cfg *Config) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return ErrEmptyToken
	}

	return nil
}

// SaveConfig saves the configuration to the file while preserving the original format and order.
// Only the credential fields are written back; everything else stays as the user formatted it.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, cfg, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the credential values in the node tree.
	updateValueInNode(&node, "token", cfg.Token)
	updateValueInNode(&node, "user_agent", cfg.UserAgent)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile string, cfg *Config, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set("token", cfg.Token)
	viper.Set("user_agent", cfg.UserAgent)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateValueInNode updates a top-level scalar value in the YAML node tree.
// Keys absent from the file are appended at the end of the mapping.
func updateValueInNode(node *yaml.Node, key, value string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == key {
			// Update the value while preserving style.
			valueNode.Value = value

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			return
		}
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: yaml.DoubleQuotedStyle},
	)
}
