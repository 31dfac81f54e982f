package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vkaudiotools/vk-audio-grabber/internal/app"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	searchCmd = &cobra.Command{
		Use:   "search {query}",
		Short: "Search tracks by text",
		Long: `Searches VK audios by artist, title, or any free text and prints the matches.

Example:
vk-audio-grabber search paul oakenfold - ready steady go`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			prepareBrowseCommand(cmd)

			app.ExecuteSearchCommand(cmd.Context(), appConfig, strings.Join(args, " "))
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	popularCmd = &cobra.Command{
		Use:   "popular",
		Short: "Show the popular chart",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			prepareBrowseCommand(cmd)

			app.ExecutePopularCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	recommendCmd = &cobra.Command{
		Use:   "recommend [user-id]",
		Short: "Show recommended tracks",
		Long: `Prints tracks recommended for a user.
Without an argument, recommendations are requested for the token owner.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			prepareBrowseCommand(cmd)

			var userID int64

			if len(args) > 0 {
				parsed, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					logger.Fatalf(cmd.Context(), "Invalid user ID '%s': %v", args[0], err)
				}

				userID = parsed
			}

			app.ExecuteRecommendCommand(cmd.Context(), appConfig, userID)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	listCmd = &cobra.Command{
		Use:   "list {owner-id}",
		Short: "List the audios of a user or community",
		Long: `Prints the audio list of a user or community.
Community identifiers are negative, for example -41670861.
A private audio list fails with an access denied error.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			prepareBrowseCommand(cmd)

			ownerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				logger.Fatalf(cmd.Context(), "Invalid owner ID '%s': %v", args[0], err)
			}

			app.ExecuteListCommand(cmd.Context(), appConfig, ownerID)
		},
	}
)

// prepareBrowseCommand applies shared flag binding and the token requirement
// common to all listing commands.
func prepareBrowseCommand(cmd *cobra.Command) {
	if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	if err := config.RequireToken(appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "%v", err)
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	for _, cmd := range []*cobra.Command{searchCmd, popularCmd, recommendCmd, listCmd} {
		cmd.Flags().Int64P("count", "n", 0, "number of tracks to print.")
		cmd.Flags().Int64("offset", 0, "offset into the full result list.")

		rootCmd.AddCommand(cmd)
	}
}
