package caption

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActive(t *testing.T) {
	set := Set{
		{ID: "a", Text: "first", StartTime: 0, EndTime: 3},
		{ID: "b", Text: "second", StartTime: 3, EndTime: 6},
		{ID: "c", Text: "third", StartTime: 8, EndTime: 9},
	}

	tests := []struct {
		position float64
		want     string
		found    bool
	}{
		{0, "a", true},
		{1.5, "a", true},
		{3, "a", true},
		{3.01, "b", true},
		{6, "b", true},
		{7, "", false},
		{9, "c", true},
		{9.5, "", false},
	}

	for _, tt := range tests {
		got, ok := Active(set, tt.position)
		assert.Equal(t, tt.found, ok, "position %v", tt.position)
		assert.Equal(t, tt.want, got.ID, "position %v", tt.position)
	}
}

func TestAdjustTime(t *testing.T) {
	tests := []struct {
		value string
		step  float64
		want  float64
	}{
		{"", TimeStep, 0.1},
		{"abc", TimeStep, 0.1},
		{"1.2", TimeStep, 1.3},
		{"0.2", -TimeStep, 0.1},
		{"0.05", -TimeStep, 0},
		{"0", -TimeStep, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, AdjustTime(tt.value, tt.step), 1e-9, "AdjustTime(%q, %v)", tt.value, tt.step)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "0:09", FormatClock(9.99))
	assert.Equal(t, "1:05", FormatClock(65.4))
	assert.Equal(t, "61:01", FormatClock(3661))
	assert.Equal(t, "0:00", FormatClock(-3))
	assert.Equal(t, "0:00", FormatClock(math.Inf(1)))
}

func TestLength(t *testing.T) {
	assert.Equal(t, 1.5, Caption{StartTime: 1, EndTime: 2.5}.Length())
	assert.Equal(t, 0.3, Caption{StartTime: 0.1, EndTime: 0.4}.Length())
}

func TestSampleIsValidSet(t *testing.T) {
	sample := Sample()
	assert.Len(t, sample, 3)
	assert.True(t, isSorted(sample))

	var rebuilt Set
	for _, c := range sample {
		var err error
		rebuilt, err = Add(rebuilt, NewCandidate(c.Text, c.StartTime, c.EndTime), 0)
		assert.NoError(t, err)
	}
	assert.Len(t, rebuilt, 3)

	again := Sample()
	assert.NotEqual(t, sample[0].ID, again[0].ID)
}
