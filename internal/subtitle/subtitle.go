package subtitle

import (
	"io"

	"github.com/mgpai22/capstudio/internal/caption"
)

// single timed cue read from a subtitle file, times in seconds
type Cue struct {
	Index     int
	StartTime float64
	EndTime   float64
	Text      string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// interface for writing a caption set to a file
type Writer interface {
	Render(set caption.Set) string
	Write(set caption.Set, path string) error
}

// interface for reading cues from subtitle text
type Parser interface {
	Parse(r io.Reader) ([]Cue, error)
}
