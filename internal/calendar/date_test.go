package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 10}, d)
	assert.Equal(t, "2024-03-10", d.String())

	for _, invalid := range []string{"", "2024-3-10", "2024-02-30", "10.03.2024", "2024-03-10T10:00:00Z", "yesterday"} {
		_, err := ParseDate(invalid)
		assert.ErrorIs(t, err, ErrInvalidDateInput, invalid)
	}
}

func TestOf_DropsTimeOfDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, Date{2024, time.March, 10}, Of(time.Date(2024, 3, 10, 23, 30, 0, 0, berlin)))
	assert.Equal(t, Date{2024, time.March, 10}, Of(time.Date(2024, 3, 10, 0, 0, 0, 0, berlin)))
	// same instant, different zone, different day
	assert.Equal(t, Date{2024, time.March, 10}, Of(time.Date(2024, 3, 11, 0, 30, 0, 0, berlin).UTC()))
}

func TestDate_Bounds(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	d := Date{2024, time.March, 10}
	start, end := d.Bounds(berlin)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, berlin), start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, berlin), end)

	lateWorkout := time.Date(2024, 3, 10, 23, 30, 0, 0, berlin)
	assert.False(t, lateWorkout.Before(start))
	assert.False(t, lateWorkout.After(end))

	nextStart, _ := Date{2024, time.March, 11}.Bounds(berlin)
	assert.True(t, lateWorkout.Before(nextStart))

	// DST switch day in Berlin is 23 hours long
	dstStart, dstEnd := Date{2024, time.March, 31}.Bounds(berlin)
	assert.Equal(t, 23*time.Hour-time.Millisecond, dstEnd.Sub(dstStart))
}

func TestDate_Text(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	raw, err := json.Marshal(payload{Date: Date{2024, time.January, 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-05"}`, string(raw))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-12-31"}`), &p))
	assert.Equal(t, Date{2023, time.December, 31}, p.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"31.12.2023"}`), &p))
	assert.True(t, Date{}.IsZero())
	assert.False(t, p.Date.IsZero())
}
