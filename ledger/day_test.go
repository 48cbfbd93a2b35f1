package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/quota-engine/ledger"
)

func TestDayDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b ledger.Day
		want int
	}{
		{"same day", "2025-03-10", "2025-03-10", 0},
		{"one day forward", "2025-03-10", "2025-03-11", 1},
		{"three days forward", "2025-03-10", "2025-03-13", 3},
		{"backward is negative", "2025-03-13", "2025-03-10", -3},
		{"across month boundary", "2025-02-27", "2025-03-02", 3},
		{"across leap day", "2024-02-28", "2024-03-01", 2},
		{"across year boundary", "2024-12-30", "2025-01-02", 3},
		{"empty a", "", "2025-03-10", 0},
		{"empty b", "2025-03-10", "", 0},
		{"malformed a", "not-a-day", "2025-03-10", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ledger.DayDiff(tc.a, tc.b))
		})
	}
}

func TestDayDiff_DSTNeverMatters(t *testing.T) {
	// GIVEN: a range spanning the US spring-forward date (2025-03-09)
	// WHEN: diffing the surrounding days
	// THEN: the diff is exact whole days; UTC-midnight math sees no DST

	assert.Equal(t, 2, ledger.DayDiff("2025-03-08", "2025-03-10"))
}

func TestAddDays(t *testing.T) {
	d := ledger.Day("2025-01-30")
	assert.Equal(t, ledger.Day("2025-01-31"), d.AddDays(1))
	assert.Equal(t, ledger.Day("2025-02-02"), d.AddDays(3))
	assert.Equal(t, ledger.Day("2025-01-23"), d.AddDays(-7))
}

func TestFromTime_TruncatesToUTC(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC, still the same UTC day.
	loc := time.FixedZone("UTC+2", 2*3600)
	at := time.Date(2025, time.June, 15, 23, 30, 0, 0, loc)
	assert.Equal(t, ledger.Day("2025-06-15"), ledger.FromTime(at))

	// 01:30 in UTC+2 is 23:30 UTC the previous day.
	at = time.Date(2025, time.June, 15, 1, 30, 0, 0, loc)
	assert.Equal(t, ledger.Day("2025-06-14"), ledger.FromTime(at))
}

func TestRecentDays(t *testing.T) {
	days := ledger.RecentDays("2025-03-10", 3)
	assert.Equal(t, []ledger.Day{"2025-03-08", "2025-03-09", "2025-03-10"}, days)

	assert.Len(t, ledger.RecentDays("2025-03-10", 1), 1)
	assert.Empty(t, ledger.RecentDays("2025-03-10", 0))
	assert.Empty(t, ledger.RecentDays("2025-03-10", -5))
}

func TestRecentDays_Restartable(t *testing.T) {
	// Pure function of its inputs: two calls agree.
	a := ledger.RecentDays("2025-03-10", 7)
	b := ledger.RecentDays("2025-03-10", 7)
	assert.Equal(t, a, b)
	assert.Equal(t, ledger.Day("2025-03-10"), a[len(a)-1])
	assert.Equal(t, ledger.Day("2025-03-04"), a[0])
}
