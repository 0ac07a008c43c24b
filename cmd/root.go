package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/bgmtv/auth"
	"github.com/s0up4200/bgmtv/bangumi"
	"github.com/s0up4200/bgmtv/config"
	"github.com/s0up4200/bgmtv/filter"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	client        *bangumi.Client
	filterManager *filter.Manager

	// tokenSource records where the access token came from
	tokenSource string

	// Persistent flags
	outputFormat string
	token        string
	envFile      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bgmtv",
	Short: "Query the bgm.tv (Bangumi) API from the command line",
	Long: `bgmtv looks up subjects, episodes, characters, persons and users on
bgm.tv. Search and list results can be narrowed locally with expression
filters, either inline with --where or by name with --preset.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if isTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == "" {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text or json")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "access token, overrides api.token and the keyring")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of BGMTV_* variables to load before the config")
}

// initializeApp loads the configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("output") {
		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("invalid output format: %s (must be 'text' or 'json')", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}

	logger = setupLogger(cfg.Logging)

	tokenSource = ""
	switch {
	case cmd.Flags().Changed("token"):
		cfg.API.Token = token
		tokenSource = "flag"
	case cfg.API.Token != "":
		tokenSource = "config"
	default:
		stored, err := auth.GetToken()
		switch {
		case err == nil:
			cfg.API.Token = stored
			tokenSource = "keyring"
		case !errors.Is(err, auth.ErrNoToken):
			logger.Debug().Err(err).Msg("Keyring unavailable")
		}
	}

	client, err = newClient(cfg.API.Token)
	if err != nil {
		return err
	}

	filterManager = filter.NewManager()
	if err := filterManager.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("base_url", client.BaseURL()).
		Str("token_source", tokenSource).
		Int("presets", len(cfg.Filter.Presets)).
		Msg("Initialized")

	return nil
}

// newClient builds an API client from the loaded config with the given token
func newClient(accessToken string) (*bangumi.Client, error) {
	c, err := bangumi.NewClient(
		bangumi.WithBaseURL(cfg.API.BaseURL),
		bangumi.WithUserAgent(cfg.API.UserAgent),
		bangumi.WithToken(accessToken),
		bangumi.WithTimeout(cfg.API.Timeout),
		bangumi.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bangumi client: %w", err)
	}
	return c, nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
