package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/bangumi"
)

const repository = "s0up4200/bgmtv"

var (
	version   = "dev"
	buildTime = "unknown"

	checkLatest bool
)

// SetVersion records the build version injected by main
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update bgmtv to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd, updateCmd)

	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "check whether a newer release is available")
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bgmtv %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "bangumi client %s, user agent %q\n", bangumi.Version, client.UserAgent())

	if !checkLatest {
		return nil
	}

	release, newer, err := latestRelease(cmd)
	if err != nil {
		return err
	}
	if release == nil {
		fmt.Fprintln(out, "No releases found.")
		return nil
	}

	if newer {
		fmt.Fprintf(out, "A newer release is available: %s\n%s\n", release.Version(), release.URL)
	} else {
		fmt.Fprintln(out, "✓ You are running the latest release.")
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	release, newer, err := latestRelease(cmd)
	if err != nil {
		return err
	}
	if release == nil || !newer {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Already up to date.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().Str("version", release.Version()).Str("path", exe).Msg("Updating")

	if err := selfupdate.UpdateTo(cmd.Context(), release.AssetURL, release.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated to %s\n", release.Version())
	return nil
}

// latestRelease looks up the newest release and reports whether it is newer
// than the running build. Development builds cannot be compared.
func latestRelease(cmd *cobra.Command) (*selfupdate.Release, bool, error) {
	current, err := semver.ParseTolerant(version)
	if err != nil {
		return nil, false, fmt.Errorf("cannot compare development build %q with releases", version)
	}

	release, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repository))
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	latest, err := semver.ParseTolerant(release.Version())
	if err != nil {
		return nil, false, fmt.Errorf("invalid release version %q: %w", release.Version(), err)
	}

	logger.Debug().Str("current", current.String()).Str("latest", latest.String()).Msg("Checked latest release")

	return release, latest.GT(current), nil
}
