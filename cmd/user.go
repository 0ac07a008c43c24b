package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/bangumi"
)

// userCmd groups the user commands
var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users", "u"},
	Short:   "Look up users",
}

var userGetCmd = &cobra.Command{
	Use:   "get <username>",
	Short: "Show a user's public profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.GetUser(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		return renderUser(cmd, user)
	},
}

var userAvatarCmd = &cobra.Command{
	Use:   "avatar <username>",
	Short: "Download a user's avatar",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAvatar,
}

var userMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the user the access token belongs to",
	Long:  `Show the user the access token belongs to. Requires api.token or --token.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.GetMe(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get current user: %w", err)
		}
		return renderUser(cmd, user)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userGetCmd, userAvatarCmd, userMeCmd)
}

func runUserAvatar(cmd *cobra.Command, args []string) error {
	size, err := bangumi.ParseImageType(imageSize)
	if err != nil {
		return err
	}

	data, err := client.GetUserAvatar(cmd.Context(), strings.TrimSpace(args[0]), size)
	if err != nil {
		return fmt.Errorf("failed to get avatar: %w", err)
	}

	return writeImage(cmd.OutOrStdout(), imageFile, data)
}

func renderUser(cmd *cobra.Command, user *bangumi.User) error {
	return render(cmd.OutOrStdout(), user, func(w io.Writer) {
		printDetails(w, func(add func(key, value string)) {
			add("ID", uitoa(user.ID))
			add("Username", user.Username)
			add("Nickname", user.GetDisplayName())
			add("Sign", user.Sign)
			if user.Avatar != nil {
				add("Avatar", user.Avatar.Large)
			}
		})
	})
}
