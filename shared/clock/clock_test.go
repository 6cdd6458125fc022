package clock_test

import (
	"encoding/json"
	"testing"
	"time"

	"tablebook/shared/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "hours and minutes", input: "18:30", want: "18:30"},
		{name: "with seconds", input: "07:05:59", want: "07:05"},
		{name: "surrounding spaces", input: " 09:00 ", want: "09:00"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clock.Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, clock.ErrInvalidTime)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNew(t *testing.T) {
	_, err := clock.New(23, 59)
	assert.NoError(t, err)

	_, err = clock.New(-1, 0)
	assert.ErrorIs(t, err, clock.ErrInvalidTime)

	_, err = clock.New(12, 60)
	assert.ErrorIs(t, err, clock.ErrInvalidTime)

	assert.Panics(t, func() { clock.MustNew(25, 0) })
}

func TestNewInterval(t *testing.T) {
	_, err := clock.NewInterval(clock.MustNew(18, 0), clock.MustNew(19, 0))
	assert.NoError(t, err)

	_, err = clock.NewInterval(clock.MustNew(18, 0), clock.MustNew(18, 0))
	assert.ErrorIs(t, err, clock.ErrInvalidInterval)

	_, err = clock.NewInterval(clock.MustNew(19, 0), clock.MustNew(18, 0))
	assert.ErrorIs(t, err, clock.ErrInvalidInterval)
}

func interval(startHour, startMinute, endHour, endMinute int) clock.Interval {
	return clock.Interval{Start: clock.MustNew(startHour, startMinute), End: clock.MustNew(endHour, endMinute)}
}

func TestContains(t *testing.T) {
	open := interval(9, 0, 22, 0)

	assert.True(t, open.Contains(interval(9, 0, 22, 0)), "exact bounds")
	assert.True(t, open.Contains(interval(10, 0, 11, 0)))
	assert.False(t, open.Contains(interval(8, 0, 9, 30)), "starts before opening")
	assert.False(t, open.Contains(interval(21, 30, 22, 1)), "ends after closing")
	assert.False(t, open.Contains(interval(7, 0, 8, 0)), "entirely before opening")
}

func TestScan(t *testing.T) {
	var fromTime clock.TimeOfDay
	require.NoError(t, fromTime.Scan(time.Date(0, time.January, 1, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "18:30", fromTime.String())

	var fromBytes clock.TimeOfDay
	require.NoError(t, fromBytes.Scan([]byte("09:15:00")))
	assert.Equal(t, "09:15", fromBytes.String())

	var fromString clock.TimeOfDay
	require.NoError(t, fromString.Scan("22:00:00"))
	assert.Equal(t, 22, fromString.Hour())

	var invalid clock.TimeOfDay
	assert.Error(t, invalid.Scan(42))
}

func TestValue(t *testing.T) {
	value, err := clock.MustNew(7, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", value)
}

func TestJSON(t *testing.T) {
	type payload struct {
		Start clock.TimeOfDay `json:"start"`
	}

	encoded, err := json.Marshal(payload{Start: clock.MustNew(18, 0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"18:00"}`, string(encoded))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"19:45"}`), &decoded))
	assert.Equal(t, clock.MustNew(19, 45), decoded.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"7pm"}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"start":1900}`), &decoded))
}
