package cmd

import (
	"log/slog"
	"os"

	"github.com/way-po-int/subtitle-extractor/internal/config"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	configPath string

	// cfg is loaded from --config before any subcommand runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "subtitle-extractor",
	Short: "Download YouTube captions and turn them into clean transcripts",
	Long: `subtitle-extractor fetches video metadata and caption tracks from YouTube
and normalizes the WebVTT captions into a deduplicated, readable transcript
(rolling-caption overlap removal, markup and noise cleaning, block merging).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if configPath != "" {
			slog.Debug("config loaded", "path", configPath)
		}
		return nil
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
}
