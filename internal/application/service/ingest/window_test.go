package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearWindows(t *testing.T) {
	now := time.Date(2014, time.February, 10, 8, 0, 0, 0, time.UTC)

	windows := yearWindows(2012, now)
	require.Len(t, windows, 3)

	assert.Equal(t, time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC), windows[0].From)
	assert.Equal(t, time.Date(2012, time.December, 31, 23, 59, 59, 0, time.UTC), windows[0].To)
	assert.Equal(t, time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC), windows[2].From)
	assert.Equal(t, now, windows[2].To)
}

func TestYearWindowsSkipsEmptyRange(t *testing.T) {
	now := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)

	windows := yearWindows(2013, now)
	require.Len(t, windows, 1)
	assert.Equal(t, 2013, windows[0].From.Year())
}

func TestYearWindowsStartInFuture(t *testing.T) {
	assert.Empty(t, yearWindows(2030, time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)))
}
