package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/way-po-int/subtitle-extractor/internal/pipeline"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Normalize a local WebVTT file (or stdin) into a transcript",
	Long: `Run the caption normalization pipeline on a WebVTT file without any network
access. Reads stdin when no file or "-" is given. With --text the input is
treated as free text (e.g. a video description) and only the cleaner runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

var (
	cleanPipeline pipelineFlags
	cleanOutput   string
	cleanText     bool
)

func init() {
	cleanPipeline.register(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write the result to this file instead of stdout")
	cleanCmd.Flags().BoolVar(&cleanText, "text", false, "clean free text instead of parsing captions")
	rootCmd.AddCommand(cleanCmd)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func runClean(cmd *cobra.Command, args []string) error {
	opts := cleanPipeline.options(cmd, cfg.Pipeline)
	if err := opts.Validate(); err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var result string
	if cleanText {
		result = pipeline.CleanText(string(data), opts.Profile)
	} else {
		result, err = pipeline.Process(string(data), opts)
		if err != nil {
			return err
		}
	}

	if result == "" {
		slog.Warn("input contains no usable captions")
		return nil
	}

	if cleanOutput != "" {
		if err := os.WriteFile(cleanOutput, []byte(result+"\n"), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		slog.Info("transcript saved", "path", cleanOutput)
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}
