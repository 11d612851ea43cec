package caption

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// id source for new captions; swapped in tests
var newID = uuid.NewString

// Validate applies every per-candidate rule except the overlap check and
// returns the parsed interval and trimmed text.
func Validate(c Candidate, videoDuration float64) (Interval, string, error) {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return Interval{}, "", ErrEmptyText
	}

	start, ok := parseSeconds(c.StartTime)
	if !ok {
		return Interval{}, "", ErrMissingTimes
	}
	end, ok := parseSeconds(c.EndTime)
	if !ok {
		return Interval{}, "", ErrMissingTimes
	}

	if start >= end {
		return Interval{}, "", ErrInvertedInterval
	}

	if start < 0 || (videoDuration > 0 && end > videoDuration) {
		return Interval{}, "", outOfRange(videoDuration)
	}

	return Interval{Start: start, End: end}, text, nil
}

func parseSeconds(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// conflicts reports whether iv overlaps any caption other than excludeID
func (s Set) conflicts(iv Interval, excludeID string) bool {
	return lo.ContainsBy(s, func(c Caption) bool {
		if excludeID != "" && c.ID == excludeID {
			return false
		}
		return Overlaps(iv, c.Interval())
	})
}

// Add validates c against the set and returns a new sorted set containing it.
// The input set is never modified.
func Add(s Set, c Candidate, videoDuration float64) (Set, error) {
	iv, text, err := Validate(c, videoDuration)
	if err != nil {
		return s, err
	}
	if s.conflicts(iv, "") {
		return s, ErrOverlap
	}

	out := make(Set, 0, len(s)+1)
	out = append(out, s...)
	out = append(out, Caption{
		ID:        newID(),
		Text:      text,
		StartTime: iv.Start,
		EndTime:   iv.End,
	})
	sortByStart(out)
	return out, nil
}

// Update replaces every field of the caption with id except the id itself.
// The caption's own previous interval is excluded from the overlap check.
func Update(s Set, id string, c Candidate, videoDuration float64) (Set, error) {
	idx := indexOf(s, id)
	if idx < 0 {
		return s, ErrCaptionNotFound
	}

	iv, text, err := Validate(c, videoDuration)
	if err != nil {
		return s, err
	}
	if s.conflicts(iv, id) {
		return s, ErrUpdateOverlap
	}

	out := s.clone()
	out[idx] = Caption{
		ID:        id,
		Text:      text,
		StartTime: iv.Start,
		EndTime:   iv.End,
	}
	sortByStart(out)
	return out, nil
}

// Nudge moves one edge of the caption with id by step, the way the
// editor's arrow controls do, and re-validates it through Update.
func Nudge(s Set, id string, edge Edge, step, videoDuration float64) (Set, error) {
	cur, ok := s.Find(id)
	if !ok {
		return s, ErrCaptionNotFound
	}

	start, end := cur.StartTime, cur.EndTime
	switch edge {
	case EdgeStart:
		start = AdjustTime(strconv.FormatFloat(start, 'f', -1, 64), step)
	case EdgeEnd:
		end = AdjustTime(strconv.FormatFloat(end, 'f', -1, 64), step)
	default:
		return s, ErrUnknownEdge
	}
	return Update(s, id, NewCandidate(cur.Text, start, end), videoDuration)
}

// Delete removes the caption with id. Absent ids are a no-op.
func Delete(s Set, id string) Set {
	return lo.Reject(s, func(c Caption, _ int) bool {
		return c.ID == id
	})
}

// ClearAll drops every caption. Confirming intent is the caller's job.
func ClearAll(Set) Set {
	return Set{}
}

func indexOf(s Set, id string) int {
	for i, c := range s {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func sortByStart(s Set) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].StartTime < s[j].StartTime
	})
}
