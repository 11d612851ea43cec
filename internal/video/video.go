package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const DefaultProbeTimeout = 15 * time.Second

// video file information
type Info struct {
	Path      string  `json:"path"`
	Duration  float64 `json:"duration"` // seconds
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frameRate"`
	Codec     string  `json:"codec"`
	HasAudio  bool    `json:"hasAudio"`
	MIME      string  `json:"mime,omitempty"`
}

// runs ffprobe and returns its JSON; swapped in tests
var probe = ffmpeg.ProbeWithTimeout

// Probe reads duration and stream details of a local video file with
// ffprobe. The timeout is shortened to ctx's deadline when that is sooner.
func Probe(ctx context.Context, path string, timeout time.Duration) (*Info, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("video file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat video: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := probe(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		if _, lookErr := exec.LookPath("ffprobe"); lookErr != nil {
			return nil, fmt.Errorf("ffprobe not found: install ffmpeg and make sure it is on PATH")
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbe(out)
	if err != nil {
		return nil, err
	}
	info.Path = path
	if mime, _, err := Sniff(path); err == nil {
		info.MIME = mime
	}
	return info, nil
}

// Sniff reads the file header and reports its MIME type and whether it
// is a video container. Unknown content gives an empty MIME.
func Sniff(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("failed to read video header: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", false, nil
	}
	return kind.MIME.Value, filetype.IsVideo(head), nil
}

// parseProbe reads the fields we need from ffprobe's -show_format
// -show_streams JSON.
func parseProbe(out string) (*Info, error) {
	if !gjson.Valid(out) {
		return nil, fmt.Errorf("ffprobe returned invalid JSON")
	}
	doc := gjson.Parse(out)

	info := &Info{}

	dur := doc.Get("format.duration").Float()
	if dur <= 0 {
		// some containers only report it per stream
		doc.Get("streams").ForEach(func(_, s gjson.Result) bool {
			if d := s.Get("duration").Float(); d > dur {
				dur = d
			}
			return true
		})
	}
	info.Duration = dur

	video := doc.Get(`streams.#(codec_type=="video")`)
	if video.Exists() {
		info.Codec = video.Get("codec_name").String()
		info.Width = int(video.Get("width").Int())
		info.Height = int(video.Get("height").Int())
		info.FrameRate = parseFrameRate(video.Get("avg_frame_rate").String())
		if info.FrameRate == 0 {
			info.FrameRate = parseFrameRate(video.Get("r_frame_rate").String())
		}
	}
	info.HasAudio = doc.Get(`streams.#(codec_type=="audio")`).Exists()

	if info.Duration <= 0 && !video.Exists() {
		return nil, fmt.Errorf("no video stream or duration found")
	}
	return info, nil
}

// parseFrameRate turns ffprobe's "30000/1001" into 29.97.
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
		".ogv":  true,
	}
	return videoExts[ext]
}
