package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests    uint64
	errorRequests    uint64
	rateLimited      uint64
	totalDurationMs  uint64
	kpiCalculated    uint64
	kpiFailed        uint64
	reportsGenerated uint64
	reportsFailed    uint64
	artifactsStored  uint64
	narrativesFailed uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordKPIs(calculated, failed int) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.kpiCalculated, uint64(calculated))
	atomic.AddUint64(&c.kpiFailed, uint64(failed))
}

func (c *Collector) RecordReport(err error) {
	if c == nil {
		return
	}
	if err != nil {
		atomic.AddUint64(&c.reportsFailed, 1)
		return
	}
	atomic.AddUint64(&c.reportsGenerated, 1)
}

func (c *Collector) RecordArtifact() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.artifactsStored, 1)
}

func (c *Collector) RecordNarrativeFailure() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.narrativesFailed, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":          total,
		"errorsTotal":            atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":       atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":          avg,
		"totalDurationMs":        totalMs,
		"kpiCalculatedTotal":     atomic.LoadUint64(&c.kpiCalculated),
		"kpiFailedTotal":         atomic.LoadUint64(&c.kpiFailed),
		"reportsGeneratedTotal":  atomic.LoadUint64(&c.reportsGenerated),
		"reportsFailedTotal":     atomic.LoadUint64(&c.reportsFailed),
		"artifactsStoredTotal":   atomic.LoadUint64(&c.artifactsStored),
		"narrativeFailuresTotal": atomic.LoadUint64(&c.narrativesFailed),
	}
}
