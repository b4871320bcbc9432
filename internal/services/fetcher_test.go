package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCurrentWeek(t *testing.T) {
	seasonStart := time.Date(2025, time.September, 4, 0, 0, 0, 0, time.UTC)
	f := NewFetcherService(nil, logrus.New(), "@weekly", "@weekly", 2025, seasonStart)

	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), 1},  // preseason clamps to 1
		{seasonStart, 1},
		// The Wednesday settle cron fires inside the week whose games ended
		// Monday night; it must resolve to that same week.
		{time.Date(2025, time.September, 10, 9, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, time.September, 11, 9, 0, 0, 0, time.UTC), 2},
		{seasonStart.Add(3 * 24 * time.Hour), 1},
		{seasonStart.Add(7 * 24 * time.Hour), 2},
		{seasonStart.Add(10 * 24 * time.Hour), 2},
		{seasonStart.Add(17 * 7 * 24 * time.Hour), 18},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), 18}, // offseason clamps to 18
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.CurrentWeek(tt.now), "now %s", tt.now)
	}
}

func TestRunOnDemandRejectsConcurrentRuns(t *testing.T) {
	f := NewFetcherService(nil, logrus.New(), "@weekly", "@weekly", 2025, time.Now())

	// Hold the run lock as an in-flight run would
	f.runMu.Lock()
	defer f.runMu.Unlock()

	_, err := f.RunOnDemand(RunOptions{Week: 1, Season: 2025})
	assert.Error(t, err)
}
