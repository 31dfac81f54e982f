package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vkaudiotools/vk-audio-grabber/internal/app"
	"github.com/vkaudiotools/vk-audio-grabber/internal/config"
	"github.com/vkaudiotools/vk-audio-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage authentication for VK.

Use 'auth login' to obtain a token with your login and password.
Use 'auth check' to verify the stored token.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in to VK and obtain an audio access token",
		Long: `Authenticates with your VK login and password and stores the received token.

Credentials are taken from the --login and --password flags, the VK_LOGIN and
VK_PASSWORD environment variables (a local .env file is read too), or an
interactive prompt, in that order.

If VK asks for a captcha, the image is shown (in a browser window when
captcha_in_browser is enabled) and the answer is read from the console.
If your account has two-factor authentication, the confirmation code is
requested the same way.

After successful login, the token and the user agent it is bound to are
saved to the configuration file. You can then download music:
vk-audio-grabber https://vk.com/audio371745461_456289486`,
		Run: func(cmd *cobra.Command, _ []string) {
			prepareAuthCommand(cmd)

			login, _ := cmd.Flags().GetString("login")
			password, _ := cmd.Flags().GetString("password")

			app.ExecuteAuthLoginCommand(cmd.Context(), appConfig, login, password)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Verify the stored token",
		Long:  `Checks that the stored token is still accepted and prints the account it belongs to.`,
		Run: func(cmd *cobra.Command, _ []string) {
			prepareAuthCommand(cmd)

			if err := config.RequireToken(appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "%v", err)
			}

			app.ExecuteAuthCheckCommand(cmd.Context(), appConfig)
		},
	}
)

// prepareAuthCommand validates the loaded configuration and fills the derived
// fields (API base URLs, parsed pauses) the VK client needs. The auth commands
// build a client without going through the download flag binding, so they run
// the same validation here.
func prepareAuthCommand(cmd *cobra.Command) {
	if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Invalid configuration: %v", err)
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	authLoginCmd.Flags().StringP("login", "l", "", "VK login (phone number or email).")
	authLoginCmd.Flags().StringP("password", "p", "", "VK password.")

	// Add subcommands to the auth command.
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authCheckCmd)

	// Add auth command to root command.
	rootCmd.AddCommand(authCmd)
}
