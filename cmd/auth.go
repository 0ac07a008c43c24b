package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/s0up4200/bgmtv/auth"
)

// authCmd groups the token management commands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the access token stored in the system keyring",
	Long: `Manage the access token stored in the system keyring.

A token given with --token or api.token (BGMTV_API_TOKEN) takes precedence
over the stored one. Tokens are issued at https://next.bgm.tv/demo/access-token.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Verify a token and store it in the keyring",
	Long: `Verify a token against /v0/me and store it in the keyring. Without an
argument the token is read from the first line of standard input.`,
	Example: `  bgmtv auth login
  echo "$TOKEN" | bgmtv auth login`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := auth.DeleteToken()
		if errors.Is(err, auth.ErrNoToken) {
			fmt.Fprintln(cmd.OutOrStdout(), "No token stored.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token is in use and who it belongs to",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	var accessToken string
	if len(args) == 1 {
		accessToken = args[0]
	} else {
		line, err := readToken(cmd)
		if err != nil {
			return err
		}
		accessToken = line
	}

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return errors.New("no token given")
	}

	c, err := newClient(accessToken)
	if err != nil {
		return err
	}
	user, err := c.GetMe(cmd.Context())
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}

	if err := auth.SetToken(accessToken); err != nil {
		return err
	}

	logger.Debug().Str("username", user.Username).Msg("Token stored")
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s).\n", user.GetDisplayName(), user.Username)
	return nil
}

// readToken reads a token from stdin, without echo when stdin is a terminal
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return line, nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if tokenSource == "" {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}

	user, err := client.GetMe(cmd.Context())
	if err != nil {
		return fmt.Errorf("token from %s is not valid: %w", tokenSource, err)
	}

	fmt.Fprintf(out, "Logged in as %s (%s), token from %s.\n", user.GetDisplayName(), user.Username, tokenSource)
	return nil
}
