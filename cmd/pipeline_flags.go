package cmd

import (
	"github.com/way-po-int/subtitle-extractor/internal/config"
	"github.com/way-po-int/subtitle-extractor/internal/pipeline"

	"github.com/spf13/cobra"
)

// pipelineFlags are the normalization flags shared by fetch and clean.
type pipelineFlags struct {
	merge   int
	mode    string
	profile string
}

func (p *pipelineFlags) register(cmd *cobra.Command) {
	defaults := config.Default().Pipeline
	cmd.Flags().IntVarP(&p.merge, "merge", "m", defaults.GroupSize, "caption blocks merged per group in grouped mode")
	cmd.Flags().StringVar(&p.mode, "mode", defaults.Mode, "output mode: flattened, grouped")
	cmd.Flags().StringVar(&p.profile, "profile", defaults.Profile, "cleaning profile: full, minimal")
}

// options overlays explicitly set flags on the configured pipeline settings.
func (p *pipelineFlags) options(cmd *cobra.Command, c config.PipelineConfig) pipeline.Options {
	if cmd.Flags().Changed("merge") {
		c.GroupSize = p.merge
	}
	if cmd.Flags().Changed("mode") {
		c.Mode = p.mode
	}
	if cmd.Flags().Changed("profile") {
		c.Profile = p.profile
	}
	return pipeline.Options{
		GroupSize: c.GroupSize,
		Profile:   pipeline.Profile(c.Profile),
		Mode:      pipeline.Mode(c.Mode),
	}
}
