package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capstudio/internal/caption"
	"github.com/mgpai22/capstudio/internal/video"
)

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe [video_file]",
		Short: "Show the duration and streams of a local video",
		Long: `Read a local video with ffprobe and print what caption timing
depends on: its duration, plus the video stream and audio presence.

Examples:
  capstudio probe talk.mp4`,
		Args: cobra.ExactArgs(1),
		RunE: a.runProbe,
	}
}

func (a *app) runProbe(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	if _, isVideo, err := video.Sniff(videoPath); err == nil && !isVideo && !video.IsVideoFile(videoPath) {
		a.logger.Warnw("File does not look like a video", "path", videoPath)
	}

	info, err := video.Probe(cmd.Context(), videoPath, a.probeTimeout())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", info.Path)
	if info.MIME != "" {
		fmt.Fprintf(out, "  Type: %s\n", info.MIME)
	}
	fmt.Fprintf(out, "  Duration: %.3fs (%s)\n", info.Duration, caption.FormatClock(info.Duration))
	if info.Codec != "" {
		fmt.Fprintf(out, "  Video: %s %dx%d @ %.2f fps\n", info.Codec, info.Width, info.Height, info.FrameRate)
	}
	fmt.Fprintf(out, "  Audio: %t\n", info.HasAudio)
	return nil
}
