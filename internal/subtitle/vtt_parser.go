package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

type VTTParser struct{}

var (
	vttTimestampRegex = regexp.MustCompile(
		`(\d{2,}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimestampRegex = regexp.MustCompile(
		`(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

// ParseVTT reads WebVTT cues, skipping the header plus NOTE and STYLE blocks.
// Cues are numbered in file order.
func ParseVTT(r io.Reader) ([]Cue, error) {
	return VTTParser{}.Parse(r)
}

func (VTTParser) Parse(r io.Reader) ([]Cue, error) {
	var cues []Cue
	scanner := bufio.NewScanner(r)

	var current *Cue
	var textLines []string
	lineNum := 0
	headerParsed := false

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
	}

	skipBlock := func() {
		for scanner.Scan() {
			lineNum++
			if strings.TrimSpace(scanner.Text()) == "" {
				break
			}
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)

		if !headerParsed {
			if strings.HasPrefix(trimmed, "WEBVTT") {
				headerParsed = true
				skipBlock()
				continue
			}
		}

		if current == nil &&
			(strings.HasPrefix(trimmed, "NOTE") || strings.HasPrefix(trimmed, "STYLE")) {
			skipBlock()
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		var fields []string
		if m := vttTimestampRegex.FindStringSubmatch(line); len(m) == 9 {
			fields = m[1:]
		} else if m := vttShortTimestampRegex.FindStringSubmatch(line); len(m) == 7 {
			fields = []string{"00", m[1], m[2], m[3], "00", m[4], m[5], m[6]}
		}

		if fields != nil {
			flush()

			start, err := parseTimestamp(fields[0], fields[1], fields[2], fields[3])
			if err != nil {
				return nil, fmt.Errorf(
					"invalid start timestamp at line %d: %w",
					lineNum,
					err,
				)
			}
			end, err := parseTimestamp(fields[4], fields[5], fields[6], fields[7])
			if err != nil {
				return nil, fmt.Errorf(
					"invalid end timestamp at line %d: %w",
					lineNum,
					err,
				)
			}

			current = &Cue{
				Index:     len(cues) + 1,
				StartTime: start,
				EndTime:   end,
			}
			continue
		}

		// anything else outside a cue is an optional cue identifier
		if current != nil {
			textLines = append(textLines, line)
		}
	}

	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT: %w", err)
	}

	return cues, nil
}
