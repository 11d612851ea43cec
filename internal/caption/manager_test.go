package caption

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	old := newID
	newID = func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
	t.Cleanup(func() { newID = old })
}

func mustAdd(t *testing.T, s Set, text string, start, end, duration float64) Set {
	t.Helper()
	out, err := Add(s, NewCandidate(text, start, end), duration)
	require.NoError(t, err)
	return out
}

func isSorted(s Set) bool {
	return sort.SliceIsSorted(s, func(i, j int) bool { return s[i].StartTime < s[j].StartTime })
}

func TestAddToEmptySet(t *testing.T) {
	useSequentialIDs(t)

	set, err := Add(nil, NewCandidate("Hello", 0, 3), 10)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, Caption{ID: "c1", Text: "Hello", StartTime: 0, EndTime: 3}, set[0])
}

func TestAddRejectsOverlap(t *testing.T) {
	set := mustAdd(t, nil, "Hello", 0, 3, 10)

	out, err := Add(set, NewCandidate("Overlap", 2, 5), 10)
	assert.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, set, out)
}

func TestAddAllowsTouchingEndpoints(t *testing.T) {
	set := mustAdd(t, nil, "Hello", 0, 3, 10)

	set, err := Add(set, NewCandidate("Touch", 3, 6), 10)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, Interval{0, 3}, set[0].Interval())
	assert.Equal(t, Interval{3, 6}, set[1].Interval())
}

func TestAddKeepsSetSortedByStart(t *testing.T) {
	var set Set
	for _, iv := range []Interval{{8, 9}, {0, 1}, {4, 6}, {2, 3}, {6, 8}, {1, 2}} {
		set = mustAdd(t, set, "x", iv.Start, iv.End, 0)
		assert.True(t, isSorted(set), "set not sorted after adding %v: %+v", iv, set)
	}
	assert.Len(t, set, 6)
}

func TestAddDoesNotMutateInput(t *testing.T) {
	set := mustAdd(t, nil, "b", 5, 6, 0)
	set = mustAdd(t, set, "c", 7, 8, 0)
	before := append(Set(nil), set...)

	_, err := Add(set, NewCandidate("a", 0, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, before, set)
}

func TestAddTrimsText(t *testing.T) {
	set := mustAdd(t, nil, "  padded text \n", 1, 2, 0)
	assert.Equal(t, "padded text", set[0].Text)
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	var set Set
	for i := 0; i < 20; i++ {
		set = mustAdd(t, set, "x", float64(i), float64(i)+1, 0)
	}
	seen := map[string]bool{}
	for _, c := range set {
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestValidationRejections(t *testing.T) {
	tests := []struct {
		name     string
		cand     Candidate
		duration float64
		want     error
	}{
		{"empty text", Candidate{Text: "", StartTime: "0", EndTime: "1"}, 10, ErrEmptyText},
		{"whitespace text", Candidate{Text: "  \t ", StartTime: "0", EndTime: "1"}, 10, ErrEmptyText},
		{"missing start", Candidate{Text: "a", StartTime: "", EndTime: "1"}, 10, ErrMissingTimes},
		{"missing end", Candidate{Text: "a", StartTime: "0", EndTime: " "}, 10, ErrMissingTimes},
		{"non numeric", Candidate{Text: "a", StartTime: "abc", EndTime: "1"}, 10, ErrMissingTimes},
		{"infinite", Candidate{Text: "a", StartTime: "0", EndTime: "Inf"}, 10, ErrMissingTimes},
		{"nan", Candidate{Text: "a", StartTime: "NaN", EndTime: "1"}, 10, ErrMissingTimes},
		{"inverted", NewCandidate("Bad", 5, 2), 10, ErrInvertedInterval},
		{"zero length", NewCandidate("Bad", 2, 2), 10, ErrInvertedInterval},
		{"negative start", NewCandidate("a", -1, 2), 10, ErrOutOfRange},
		{"past duration", NewCandidate("a", 8, 10.5), 10, ErrOutOfRange},
		{"negative start unknown duration", NewCandidate("a", -0.5, 2), 0, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Add(nil, tt.cand, tt.duration)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEmptyTextCheckedBeforeTimes(t *testing.T) {
	_, err := Add(nil, Candidate{Text: "", StartTime: "", EndTime: ""}, 0)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestUnknownDurationIsUnbounded(t *testing.T) {
	set, err := Add(nil, NewCandidate("late", 5000, 5001), 0)
	require.NoError(t, err)
	assert.Len(t, set, 1)
}

func TestEndAtDurationAllowed(t *testing.T) {
	_, err := Add(nil, NewCandidate("end", 9, 10), 10)
	assert.NoError(t, err)
}

func TestOutOfRangeMessageNamesDuration(t *testing.T) {
	_, err := Add(nil, NewCandidate("a", 0, 20), 12.9)
	require.Error(t, err)
	assert.Equal(t, "Times must be between 0 and 12 seconds", err.Error())
	reason, ok := ReasonOf(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonOutOfRange, reason)
}

func TestOverlapRejectedRegardlessOfOrder(t *testing.T) {
	pairs := [][2]Interval{
		{{0, 3}, {2, 5}},
		{{1, 4}, {0, 2}},
		{{0, 10}, {3, 4}},
		{{3, 4}, {0, 10}},
		{{2, 6}, {2, 6}},
	}
	for _, p := range pairs {
		for _, order := range [][2]Interval{{p[0], p[1]}, {p[1], p[0]}} {
			set := mustAdd(t, nil, "first", order[0].Start, order[0].End, 0)
			_, err := Add(set, NewCandidate("second", order[1].Start, order[1].End), 0)
			assert.ErrorIs(t, err, ErrOverlap, "adding %v after %v", order[1], order[0])
		}
	}
}

func TestOverlapsSymmetricAndReflexive(t *testing.T) {
	ivs := []Interval{{0, 1}, {0.5, 2}, {1, 3}, {2.5, 2.75}, {3, 4}, {0, 10}}
	for _, a := range ivs {
		assert.True(t, Overlaps(a, a), "interval %v should overlap itself", a)
		for _, b := range ivs {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "asymmetric for %v %v", a, b)
		}
	}
	assert.False(t, Overlaps(Interval{0, 3}, Interval{3, 6}))
}

func TestUpdateSameIntervalNeverOverlaps(t *testing.T) {
	set := mustAdd(t, nil, "a", 0, 3, 10)
	set = mustAdd(t, set, "b", 3, 6, 10)

	for _, c := range set {
		out, err := Update(set, c.ID, NewCandidate("edited", c.StartTime, c.EndTime), 10)
		require.NoError(t, err)
		got, ok := out.Find(c.ID)
		require.True(t, ok)
		assert.Equal(t, "edited", got.Text)
	}
}

func TestUpdateMovesAndResorts(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 0, 1, 0)
	set = mustAdd(t, set, "b", 2, 3, 0)

	out, err := Update(set, "c1", NewCandidate(" moved ", 5, 6), 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c2", out[0].ID)
	assert.Equal(t, Caption{ID: "c1", Text: "moved", StartTime: 5, EndTime: 6}, out[1])

	// original untouched
	assert.Equal(t, "c1", set[0].ID)
	assert.Equal(t, 0.0, set[0].StartTime)
}

func TestUpdateCanGrowIntoOwnSpace(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 2, 3, 0)

	out, err := Update(set, "c1", NewCandidate("a", 1, 4), 0)
	require.NoError(t, err)
	assert.Equal(t, Interval{1, 4}, out[0].Interval())
}

func TestUpdateRejectsOverlapWithOthers(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 0, 3, 0)
	set = mustAdd(t, set, "b", 4, 6, 0)

	out, err := Update(set, "c2", NewCandidate("b", 2, 6), 0)
	assert.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, ErrUpdateOverlap.Message, err.Error())
	assert.Equal(t, set, out)

	_, err = Add(set, NewCandidate("c", 2, 5), 0)
	assert.Equal(t, ErrOverlap.Message, err.Error())
}

func TestUpdateValidates(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 0, 3, 10)

	_, err := Update(set, "c1", NewCandidate("", 0, 3), 10)
	assert.ErrorIs(t, err, ErrEmptyText)
	_, err = Update(set, "c1", NewCandidate("a", 3, 1), 10)
	assert.ErrorIs(t, err, ErrInvertedInterval)
	_, err = Update(set, "c1", NewCandidate("a", 0, 11), 10)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestUpdateUnknownID(t *testing.T) {
	set := mustAdd(t, nil, "a", 0, 3, 10)
	_, err := Update(set, "missing", NewCandidate("a", 0, 3), 10)
	assert.True(t, errors.Is(err, ErrCaptionNotFound))
	_, isRejection := ReasonOf(err)
	assert.False(t, isRejection)
}

func TestDelete(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 0, 1, 0)
	set = mustAdd(t, set, "b", 1, 2, 0)

	out := Delete(set, "c1")
	require.Len(t, out, 1)
	assert.Equal(t, "c2", out[0].ID)
	assert.Len(t, set, 2)

	same := Delete(out, "nope")
	assert.Equal(t, out, same)
}

func TestClearAll(t *testing.T) {
	set := mustAdd(t, nil, "a", 0, 1, 0)
	out := ClearAll(set)
	assert.Empty(t, out)
	assert.Len(t, set, 1)
}

func TestRejectionIsMatchesByReason(t *testing.T) {
	custom := &Rejection{Reason: ReasonOverlap, Message: "custom"}
	assert.ErrorIs(t, custom, ErrOverlap)
	assert.NotErrorIs(t, custom, ErrEmptyText)
}

func TestNudge(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 1, 2, 10)
	set = mustAdd(t, set, "b", 3, 4, 10)

	out, err := Nudge(set, "c1", EdgeEnd, TimeStep, 10)
	require.NoError(t, err)
	assert.Equal(t, Interval{1, 2.1}, out[0].Interval())
	assert.Equal(t, Interval{1, 2}, set[0].Interval(), "input set modified")

	out, err = Nudge(out, "c2", EdgeStart, -TimeStep, 10)
	require.NoError(t, err)
	assert.Equal(t, Interval{2.9, 4}, out[1].Interval())
	assert.Equal(t, "b", out[1].Text)
}

func TestNudgeRejections(t *testing.T) {
	useSequentialIDs(t)
	set := mustAdd(t, nil, "a", 0, 1, 10)
	set = mustAdd(t, set, "b", 1, 2, 10)

	// start clamps at zero, which leaves the interval unchanged
	out, err := Nudge(set, "c1", EdgeStart, -TimeStep, 10)
	require.NoError(t, err)
	assert.Equal(t, Interval{0, 1}, out[0].Interval())

	_, err = Nudge(set, "c1", EdgeEnd, TimeStep, 10)
	assert.ErrorIs(t, err, ErrOverlap)

	_, err = Nudge(set, "c2", EdgeStart, 1, 10)
	assert.ErrorIs(t, err, ErrInvertedInterval)

	_, err = Nudge(set, "nope", EdgeEnd, TimeStep, 10)
	assert.ErrorIs(t, err, ErrCaptionNotFound)

	_, err = Nudge(set, "c1", Edge("middle"), TimeStep, 10)
	assert.ErrorIs(t, err, ErrUnknownEdge)
}

func TestCaptionJSONIncludesLength(t *testing.T) {
	data, err := json.Marshal(Caption{ID: "x", Text: "Hi", StartTime: 1, EndTime: 2.75})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","text":"Hi","startTime":1,"endTime":2.75,"length":1.8}`, string(data))

	var back Caption
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Caption{ID: "x", Text: "Hi", StartTime: 1, EndTime: 2.75}, back)
}
