package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vkaudiotools/vk-audio-grabber/internal/app"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
	"github.com/vkaudiotools/vk-audio-grabber/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "vk-audio-grabber [flags] {urls}",
		Short: "Download tracks, playlists, or a user's entire audio list from VK.",
		Long: `VK Audio Grabber is a CLI tool for downloading audio content from VK URLs.
It supports downloading:
- Individual tracks
- Playlists and albums
- Full audio lists of users and communities

URLs can also be passed through .txt files, one URL per line.
The application provides flexible naming templates and download speed limits.`,
		Version:          version.Full(),
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, urls []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			// E2E tests inspect the effective configuration through this hook.
			if os.Getenv(configDumpEnvVar) != "" {
				dumpConfig(appConfig)

				return
			}

			if err := config.RequireToken(appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "%v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig, urls)
		},
	}
)

// configDumpEnvVar makes the root command print the effective configuration
// as JSON and exit instead of downloading anything.
const configDumpEnvVar = "VK_AUDIO_GRABBER_DUMP_CONFIG"

func dumpConfig(cfg *config.Config) {
	dump := struct {
		OutputPath             string `json:"output_path"`
		ReplaceTracks          bool   `json:"replace_tracks"`
		DownloadSpeedLimit     string `json:"download_speed_limit"`
		MaxConcurrentDownloads int64  `json:"max_concurrent_downloads"`
		ResultsCount           int64  `json:"results_count"`
	}{
		OutputPath:             cfg.OutputPath,
		ReplaceTracks:          cfg.ReplaceTracks,
		DownloadSpeedLimit:     cfg.DownloadSpeedLimit,
		MaxConcurrentDownloads: cfg.MaxConcurrentDownloads,
		ResultsCount:           cfg.ResultsCount,
	}

	encoded, err := json.Marshal(dump)
	if err != nil {
		return
	}

	fmt.Println(string(encoded))
}

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn't exist).")

	rootCmdFlags.BoolP(
		"replace",
		"r",
		false,
		"re-download tracks that already exist on disk.")

	rootCmdFlags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500KB, 1MB, 1.5MB.")

	rootCmdFlags.Int64P(
		"jobs",
		"j",
		0,
		"number of tracks to download simultaneously.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	// Credentials may come from a local .env file; its absence is fine.
	_ = godotenv.Load()

	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if level, ok := logger.ParseLogLevel(appConfig.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Duplicate log output into a rotated file when configured.
	if appConfig.LogFile != "" {
		logger.SetLogger(logger.NewWithRotatingFile(nil, appConfig.LogFile))
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("replace"); flag != nil && flag.Changed {
		cfg.ReplaceTracks, _ = flags.GetBool("replace")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	if flag := flags.Lookup("jobs"); flag != nil && flag.Changed {
		cfg.MaxConcurrentDownloads, _ = flags.GetInt64("jobs")
	}

	if flag := flags.Lookup("count"); flag != nil && flag.Changed {
		cfg.ResultsCount, _ = flags.GetInt64("count")
	}

	if flag := flags.Lookup("offset"); flag != nil && flag.Changed {
		cfg.ResultsOffset, _ = flags.GetInt64("offset")
	}

	return config.ValidateConfig(cfg)
}
