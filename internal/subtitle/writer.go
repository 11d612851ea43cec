package subtitle

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/capstudio/internal/caption"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt or vtt", name)
	}
}

// ToSRT serializes the set in its current order. Ids are never rendered.
func ToSRT(set caption.Set) string {
	var sb strings.Builder
	for i, c := range set {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(c.StartTime),
			formatSRTTime(c.EndTime)))

		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ToVTT serializes the set as WebVTT without cue identifiers.
func ToVTT(set caption.Set) string {
	var sb strings.Builder

	sb.WriteString("WEBVTT\n\n")

	for _, c := range set {
		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(c.StartTime),
			formatVTTTime(c.EndTime)))

		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Render serializes set in the given format.
func Render(format Format, set caption.Set) (string, error) {
	w, err := NewWriter(format)
	if err != nil {
		return "", err
	}
	return w.Render(set), nil
}

func (w *SRTWriter) Render(set caption.Set) string {
	return ToSRT(set)
}

// writes the set to an SRT file
func (w *SRTWriter) Write(set caption.Set, path string) error {
	return writeFile(path, ToSRT(set))
}

func (w *VTTWriter) Render(set caption.Set) string {
	return ToVTT(set)
}

// writes the set to a VTT file
func (w *VTTWriter) Write(set caption.Set, path string) error {
	return writeFile(path, ToVTT(set))
}

func writeFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func formatSRTTime(seconds float64) string {
	return formatTimestamp(seconds, ',')
}

func formatVTTTime(seconds float64) string {
	return formatTimestamp(seconds, '.')
}

// fields are truncated, never rounded, so 1.9999 renders as ...01<sep>999.
// The split is done on whole milliseconds so 1.001 stays 001.
func formatTimestamp(seconds float64, sep byte) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*1000 + 1e-6))
	millis := total % 1000
	secs := (total / 1000) % 60
	minutes := (total / 60000) % 60
	hours := total / 3600000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".vtt":
		return FormatVTT
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}

// MIME type used when the set is served as a download
func ContentType(format Format) string {
	switch format {
	case FormatVTT:
		return "text/vtt"
	default:
		return "text/plain"
	}
}

// DownloadName is the attachment file name offered to browsers.
func DownloadName(format Format) string {
	return "captions" + GetExtensionForFormat(format)
}
