package main

import (
	"testing"
	"time"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateArg(t *testing.T) {
	loc = time.UTC

	date, err := dateArg([]string{"2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, calendar.Date{Year: 2024, Month: time.February, Day: 29}, date)

	_, err = dateArg([]string{"2023-02-29"})
	assert.ErrorIs(t, err, calendar.ErrInvalidDateInput)

	date, err = dateArg(nil)
	require.NoError(t, err)
	assert.Equal(t, calendar.Today(time.UTC), date)
}

func TestExplain(t *testing.T) {
	assert.ErrorIs(t, explain(identity.ErrUnauthenticated), identity.ErrUnauthenticated)
	assert.Contains(t, explain(identity.ErrProfileIncomplete).Error(), "--email")
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "whoami", "workouts", "stats"} {
		assert.True(t, names[want], want)
	}
}
