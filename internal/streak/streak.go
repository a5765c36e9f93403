// Package streak computes consistency figures from raw check-in timestamps.
//
// All functions are pure: "now" is an explicit argument so callers (and
// tests) control both the reference day and the timezone used for day
// bucketing. Nothing here reads the wall clock.
package streak

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Never is returned by DaysSince when no activity was ever recorded.
// It compares greater than any realistic day count.
const Never = 999

// ErrInvalidTimestamp reports a completion value that could not be parsed.
var ErrInvalidTimestamp = errors.New("invalid completion timestamp")

const daySec = 24 * 60 * 60

// dayIndex buckets an instant into a calendar day, counted as days since
// the Unix epoch in the given location. Two instants share a bucket iff
// they fall on the same calendar day in loc.
func dayIndex(t time.Time, loc *time.Location) int64 {
	t = t.In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Unix() / daySec
}

// distinctDays returns the unique day buckets of completions, sorted
// descending (most recent first). Duplicate same-day completions collapse
// into one bucket.
func distinctDays(completions []time.Time, loc *time.Location) []int64 {
	uniq := make(map[int64]struct{}, len(completions))
	for _, c := range completions {
		uniq[dayIndex(c, loc)] = struct{}{}
	}
	days := make([]int64, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)
	return days
}

// Current returns the number of consecutive calendar days, ending at now's
// day or the day before it, with at least one completion. A streak whose
// most recent day is neither today nor yesterday is stale and counts as 0;
// the single-day tolerance only covers the query happening the day after
// the last check-in, gaps inside the run are never skipped.
func Current(completions []time.Time, now time.Time) int {
	days := distinctDays(completions, now.Location())
	if len(days) == 0 {
		return 0
	}

	today := dayIndex(now, now.Location())
	if days[0] != today && days[0] != today-1 {
		return 0
	}

	count := 1
	for i := 1; i < len(days); i++ {
		if days[i] != days[i-1]-1 {
			break
		}
		count++
	}
	return count
}

// Longest returns the longest run of consecutive check-in days anywhere in
// the history, regardless of when the query happens.
func Longest(completions []time.Time, loc *time.Location) int {
	days := distinctDays(completions, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]-1 {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

// DaysSince returns how many whole calendar days have passed since the most
// recent completion, relative to now's day. Returns 0 when the last
// check-in is today, and Never when there are no completions at all.
// Completions dated after now clamp to 0 rather than going negative.
func DaysSince(completions []time.Time, now time.Time) int {
	days := distinctDays(completions, now.Location())
	if len(days) == 0 {
		return Never
	}

	diff := dayIndex(now, now.Location()) - days[0]
	if diff < 0 {
		return 0
	}
	return int(diff)
}

// Days returns the distinct check-in days in loc, sorted ascending and
// truncated to local midnight. Used by the calendar grid.
func Days(completions []time.Time, loc *time.Location) []time.Time {
	idx := distinctDays(completions, loc)
	slices.Reverse(idx)

	out := make([]time.Time, 0, len(idx))
	for _, d := range idx {
		utcMidnight := time.Unix(d*daySec, 0).UTC()
		out = append(out, time.Date(utcMidnight.Year(), utcMidnight.Month(), utcMidnight.Day(), 0, 0, 0, 0, loc))
	}
	return out
}

// milestones are the streak lengths the today view celebrates.
var milestones = []int{7, 14, 30, 60, 100, 365}

// Milestone reports whether a streak length is worth celebrating.
func Milestone(n int) bool {
	return slices.Contains(milestones, n)
}

// ParseTimes parses RFC3339 completion timestamps. A value that does not
// parse surfaces as ErrInvalidTimestamp instead of being dropped, so bad
// data can never masquerade as a broken streak.
func ParseTimes(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, v)
		}
		out = append(out, t)
	}
	return out, nil
}
