package caption

import (
	"encoding/json"
	"strconv"
)

// single caption bound to the half-open interval [StartTime, EndTime)
type Caption struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// MarshalJSON adds the rounded on-screen length shown in caption lists.
func (c Caption) MarshalJSON() ([]byte, error) {
	type plain Caption
	return json.Marshal(struct {
		plain
		Length float64 `json:"length"`
	}{plain(c), c.Length()})
}

// ordered collection of captions for one video session
type Set []Caption

// time span in seconds
type Interval struct {
	Start float64
	End   float64
}

// which end of a caption a nudge moves
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// raw caption input as typed into the editor form
type Candidate struct {
	Text      string `json:"text"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// NewCandidate builds a candidate from numeric times.
func NewCandidate(text string, start, end float64) Candidate {
	return Candidate{
		Text:      text,
		StartTime: strconv.FormatFloat(start, 'f', -1, 64),
		EndTime:   strconv.FormatFloat(end, 'f', -1, 64),
	}
}

func (c Caption) Interval() Interval {
	return Interval{Start: c.StartTime, End: c.EndTime}
}

// Overlaps reports whether two intervals share any instant.
// Touching endpoints do not count.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// clone returns a copy that never aliases s
func (s Set) clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Find returns the caption with the given id.
func (s Set) Find(id string) (Caption, bool) {
	for _, c := range s {
		if c.ID == id {
			return c, true
		}
	}
	return Caption{}, false
}
