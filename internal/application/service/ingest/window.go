package ingest

import "time"

// window is a candle request range. The provider caps the span of a single
// candle request, so history is requested one calendar year at a time.
type window struct {
	From time.Time
	To   time.Time
}

func yearWindows(startYear int, now time.Time) []window {
	now = now.UTC()
	var windows []window
	for year := startYear; year <= now.Year(); year++ {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		if to.After(now) {
			to = now
		}
		if !from.Before(to) {
			continue
		}
		windows = append(windows, window{From: from, To: to})
	}
	return windows
}
