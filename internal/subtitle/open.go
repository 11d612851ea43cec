package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/capstudio/internal/caption"
)

// Open parses an SRT or VTT file chosen by extension.
func Open(path string) ([]Cue, Format, error) {
	var (
		parser Parser
		format Format
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		parser, format = SRTParser{}, FormatSRT
	case ".vtt":
		parser, format = VTTParser{}, FormatVTT
	default:
		return nil, "", fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cues, err := parser.Parse(file)
	if err != nil {
		return nil, "", err
	}
	return cues, format, nil
}

// Import builds a caption set by adding each cue through the caption
// manager, so the result obeys every set invariant. The first rejected
// cue aborts the import.
func Import(cues []Cue, videoDuration float64) (caption.Set, error) {
	set := caption.Set{}
	for i, cue := range cues {
		next, err := caption.Add(
			set,
			caption.NewCandidate(cue.Text, cue.StartTime, cue.EndTime),
			videoDuration,
		)
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", i+1, err)
		}
		set = next
	}
	return set, nil
}
