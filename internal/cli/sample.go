package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/capstudio/internal/caption"
	"github.com/mgpai22/capstudio/internal/subtitle"
)

func (a *app) sampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the demonstration caption set",
		Long: `Print the three demonstration captions in SRT or VTT. Handy as a
starting file or to check how a player renders each format.

Examples:
  capstudio sample
  capstudio sample -f vtt -o demo.vtt`,
		Args: cobra.NoArgs,
		RunE: a.runSample,
	}

	cmd.Flags().StringP("format", "f", "", "Output subtitle format (srt, vtt)")
	return cmd
}

func (a *app) runSample(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, a.output, subtitle.FormatSRT)
	if err != nil {
		return err
	}
	return a.writeSet(cmd, caption.Sample(), format, a.output)
}
