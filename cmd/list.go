package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/way-po-int/subtitle-extractor/internal/youtube"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <url|video-id>",
	Short: "List the caption tracks available for a video",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var listBackend string

func init() {
	listCmd.Flags().StringVar(&listBackend, "backend", "", "fetch backend: ytdlp, web (default from config)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	id, err := youtube.ExtractVideoID(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}

	c := *cfg
	c.Cache.Enabled = false
	if listBackend != "" {
		c.Fetch.Backend = listBackend
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fetcher, cleanup, err := newFetcher(ctx, &c)
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := fetcher.ListSubtitles(ctx, id)
	if err != nil {
		return err
	}

	renderSubtitleList(cmd.OutOrStdout(), id, list)
	return nil
}

func renderSubtitleList(w io.Writer, id string, list *youtube.SubtitleList) {
	fmt.Fprintf(w, "%s %s\n", headingStyle.Render("Video ID:"), id)

	if len(list.Manual) == 0 && len(list.Automatic) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No subtitles available."))
		return
	}

	section := func(title string, tracks []youtube.SubtitleTrack) {
		if len(tracks) == 0 {
			return
		}
		rule := ruleStyle.Render(strings.Repeat("-", 60))
		fmt.Fprintf(w, "\n%s\n%s\n", headingStyle.Render(title), rule)
		for _, t := range tracks {
			formats := "N/A"
			if len(t.Formats) > 0 {
				formats = strings.Join(t.Formats, ", ")
			}
			fmt.Fprintf(w, "  • %s (%s) %s\n", t.Name, t.Lang, mutedStyle.Render("formats: "+formats))
		}
		fmt.Fprintln(w, rule)
	}

	section("Manual subtitles", list.Manual)
	section("Automatic captions", list.Automatic)
}
