package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capstudio/internal/config"
	"github.com/mgpai22/capstudio/internal/logging"
	"github.com/mgpai22/capstudio/internal/video"
)

// state shared by every subcommand, filled in by the root's pre-run
type app struct {
	configPath string
	verbose    bool
	output     string

	cfg    *config.Config
	logger *logging.Logger
}

// NewRootCmd builds the capstudio command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "capstudio",
		Short: "Author, check and export timed captions for videos",
		Long: `Capstudio keeps a set of non-overlapping, time-bounded captions for a
video and exports them as SubRip (.srt) or WebVTT (.vtt).

Run "capstudio serve" for the editing API, or use the file commands to
convert, translate and inspect captions directly.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().
		StringVar(&a.configPath, "config", "", "Config file (default is the per-user config dir)")
	rootCmd.PersistentFlags().
		BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&a.output, "output", "o", "", "Output file path")

	rootCmd.AddCommand(
		a.serveCmd(),
		a.convertCmd(),
		a.translateCmd(),
		a.sampleCmd(),
		a.probeCmd(),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, created, err := config.LoadOrCreate(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.NewFileLogger(a.verbose || cfg.Log.Verbose, cfg.Log.File)
	if err != nil {
		return err
	}
	a.logger = logger

	if created {
		path, _ := config.Path(a.configPath)
		a.logger.Infow("Created default config", "path", path)
	}
	return nil
}

// videoDuration returns the bound used for caption times: the probed
// length of videoPath when given, otherwise the --duration value.
func (a *app) videoDuration(ctx context.Context, cmd *cobra.Command) (float64, error) {
	duration, _ := cmd.Flags().GetFloat64("duration")
	videoPath, _ := cmd.Flags().GetString("video")

	if duration < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %v", duration)
	}
	if videoPath == "" {
		return duration, nil
	}

	info, err := video.Probe(ctx, videoPath, a.probeTimeout())
	if err != nil {
		return 0, fmt.Errorf("failed to read video duration: %w", err)
	}
	a.logger.Debugw("Probed video", "path", videoPath, "duration", info.Duration)
	return info.Duration, nil
}

func (a *app) probeTimeout() time.Duration {
	if a.cfg == nil {
		return video.DefaultProbeTimeout
	}
	return a.cfg.Video.ProbeTimeout.Duration
}

func addDurationFlags(cmd *cobra.Command) {
	cmd.Flags().
		Float64("duration", 0, "Video duration in seconds; captions must end within it (0 = unbounded)")
	cmd.Flags().
		String("video", "", "Local video file to read the duration from (requires ffprobe)")
	cmd.MarkFlagsMutuallyExclusive("duration", "video")
}
