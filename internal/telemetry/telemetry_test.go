package telemetry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrama-dev/hybridcore/internal/telemetry"
)

func TestRecordAccumulatesCounts(t *testing.T) {
	c := telemetry.New()
	c.Record(telemetry.QueryStats{CombinedCount: 5, CacheHit: true}, 10*time.Millisecond)
	c.Record(telemetry.QueryStats{CombinedCount: 3, CacheHit: false}, 20*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.TotalSearches)
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(1), snap.CacheMisses)
	assert.Equal(t, 3, snap.LastQuery.CombinedCount)
}

func TestRecordRunningMeanResponseTime(t *testing.T) {
	c := telemetry.New()
	c.Record(telemetry.QueryStats{}, 10*time.Millisecond)
	c.Record(telemetry.QueryStats{}, 30*time.Millisecond)

	snap := c.Snapshot()
	assert.InDelta(t, 20*time.Millisecond, snap.AvgResponseTime, float64(time.Millisecond))
}

func TestResetClearsState(t *testing.T) {
	c := telemetry.New()
	c.Record(telemetry.QueryStats{}, time.Second)
	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, int64(0), snap.TotalSearches)
	assert.Equal(t, time.Duration(0), snap.AvgResponseTime)
}
