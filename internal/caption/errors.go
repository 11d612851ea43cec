package caption

import (
	"errors"
	"fmt"
	"math"
)

// which validation rule rejected a candidate
type Reason string

const (
	ReasonEmptyText        Reason = "empty_text"
	ReasonMissingTimes     Reason = "missing_times"
	ReasonInvertedInterval Reason = "inverted_interval"
	ReasonOutOfRange       Reason = "out_of_range"
	ReasonOverlap          Reason = "overlap"
)

// Rejection is a recoverable validation failure. The caller keeps its
// previous set and shows Message to the user.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Is matches any rejection carrying the same reason, so callers can use
// errors.Is(err, ErrOverlap) regardless of the message.
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	if !ok {
		return false
	}
	return t.Reason == r.Reason
}

var (
	ErrEmptyText        = &Rejection{Reason: ReasonEmptyText, Message: "Please enter caption text"}
	ErrMissingTimes     = &Rejection{Reason: ReasonMissingTimes, Message: "Please enter both start and end times"}
	ErrInvertedInterval = &Rejection{Reason: ReasonInvertedInterval, Message: "End time must be greater than start time"}
	ErrOutOfRange       = &Rejection{Reason: ReasonOutOfRange, Message: "Times must not be negative"}
	ErrOverlap          = &Rejection{Reason: ReasonOverlap, Message: "This caption overlaps with an existing caption. Please choose different start and end times."}
	ErrUpdateOverlap    = &Rejection{Reason: ReasonOverlap, Message: "This caption overlaps with another existing caption. Please choose different start and end times."}

	// not a validation rejection: the update target is gone
	ErrCaptionNotFound = errors.New("caption not found")
	ErrUnknownEdge     = errors.New("edge must be start or end")
)

func outOfRange(videoDuration float64) *Rejection {
	if videoDuration <= 0 {
		return ErrOutOfRange
	}
	return &Rejection{
		Reason:  ReasonOutOfRange,
		Message: fmt.Sprintf("Times must be between 0 and %d seconds", int(math.Floor(videoDuration))),
	}
}

// ReasonOf extracts the rejection reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}
