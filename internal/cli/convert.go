package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capstudio/internal/apperrors"
	"github.com/mgpai22/capstudio/internal/caption"
	"github.com/mgpai22/capstudio/internal/subtitle"
)

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [subtitle_file]",
		Short: "Check a subtitle file and export it as SRT or VTT",
		Long: `Read an SRT or VTT file, add every cue through the caption rules
(non-empty text, end after start, within the video, no overlaps) and
export the result.

The output format comes from --format, then the output file extension,
then defaults to srt. Without --output the captions go to stdout.

Examples:
  capstudio convert talk.srt -o talk.vtt
  capstudio convert talk.vtt -f srt --duration 95.5
  capstudio convert talk.srt --video talk.mp4 -o checked.srt`,
		Args: cobra.ExactArgs(1),
		RunE: a.runConvert,
	}

	cmd.Flags().StringP("format", "f", "", "Output subtitle format (srt, vtt)")
	addDurationFlags(cmd)
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	set, _, _, err := a.loadSet(cmd, inputPath)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd, a.output, subtitle.FormatSRT)
	if err != nil {
		return err
	}

	if err := a.writeSet(cmd, set, format, a.output); err != nil {
		return err
	}

	a.logger.Infow("Converted captions",
		"input", inputPath,
		"output", a.output,
		"format", format,
		"captions", len(set),
	)
	return nil
}

// loadSet parses path and imports its cues under the caption rules. It
// also returns the video duration the cues were checked against.
func (a *app) loadSet(cmd *cobra.Command, path string) (caption.Set, subtitle.Format, float64, error) {
	duration, err := a.videoDuration(cmd.Context(), cmd)
	if err != nil {
		return nil, "", 0, err
	}

	cues, format, err := subtitle.Open(path)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(cues) == 0 {
		return nil, "", 0, fmt.Errorf("subtitle file contains no entries")
	}
	a.logger.Debugw("Parsed subtitle file", "path", path, "cues", len(cues), "format", format)

	set, err := subtitle.Import(cues, duration)
	if err != nil {
		return nil, "", 0, fmt.Errorf("invalid captions in %s: %w", filepath.Base(path), err)
	}
	return set, format, duration, nil
}

func outputFormat(cmd *cobra.Command, outputPath string, fallback subtitle.Format) (subtitle.Format, error) {
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		return subtitle.ParseFormat(name)
	}
	if outputPath != "" {
		return subtitle.GetFormatFromExtension(outputPath), nil
	}
	return fallback, nil
}

// writeSet writes set to path, or to stdout when path is empty.
func (a *app) writeSet(cmd *cobra.Command, set caption.Set, format subtitle.Format, path string) error {
	if len(set) == 0 {
		return apperrors.ErrNoCaptions
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}

	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), writer.Render(set))
		return err
	}

	if err := writer.Write(set, path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	absOutput, _ := filepath.Abs(path)
	fmt.Fprintf(cmd.OutOrStdout(), "Captions written: %s\n", absOutput)
	return nil
}
