package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

type SRTParser struct{}

var srtTimestampRegex = regexp.MustCompile(
	`(\d{2,}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2}),(\d{3})`,
)

// ParseSRT reads SubRip cues. Sequence numbers are kept as read; cues
// without a timing line are dropped.
func ParseSRT(r io.Reader) ([]Cue, error) {
	return SRTParser{}.Parse(r)
}

func (SRTParser) Parse(r io.Reader) ([]Cue, error) {
	var cues []Cue
	scanner := bufio.NewScanner(r)

	var current *Cue
	var textLines []string
	timed := false
	lineNum := 0

	flush := func() {
		if current != nil && timed && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
		timed = false
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil {
				current = &Cue{Index: index}
				continue
			}
		}

		if !timed {
			matches := srtTimestampRegex.FindStringSubmatch(line)
			if len(matches) == 9 {
				if current == nil {
					current = &Cue{Index: len(cues) + 1}
				}
				start, err := parseTimestamp(
					matches[1], matches[2], matches[3], matches[4],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid start timestamp at line %d: %w",
						lineNum,
						err,
					)
				}
				end, err := parseTimestamp(
					matches[5], matches[6], matches[7], matches[8],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid end timestamp at line %d: %w",
						lineNum,
						err,
					)
				}
				current.StartTime = start
				current.EndTime = end
				timed = true
				continue
			}
		}

		if current != nil && timed {
			textLines = append(textLines, line)
		}
	}

	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT: %w", err)
	}

	return cues, nil
}

// converts timestamp fields to seconds
func parseTimestamp(hours, minutes, seconds, millis string) (float64, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}
	if m > 59 || s > 59 {
		return 0, fmt.Errorf("field out of range in %s:%s:%s", hours, minutes, seconds)
	}

	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}
