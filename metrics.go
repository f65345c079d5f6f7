package leasepool

import "time"

// Sampler reads a current scalar observable on demand. A MetricsSink
// calls it when scraping, never on its own schedule.
type Sampler func() float64

// MetricsSink is the observability export surface a Pool reports
// through. Implementations are expected to be cheap and non-blocking;
// the pool never waits on a MetricsSink call.
type MetricsSink interface {
	RecordLeaseWaitTime(d time.Duration)
	RecordPreparationTime(d time.Duration)
	RecordLeaseException(err error)
	RecordPreparationException(err error)

	RegisterItemsAllocatedObserver(poolName string, sample Sampler)
	RegisterItemsAvailableObserver(poolName string, sample Sampler)
	RegisterActiveLeasesObserver(poolName string, sample Sampler)
	RegisterQueuedLeasesObserver(poolName string, sample Sampler)
	RegisterUtilizationRateObserver(poolName string, sample Sampler)
}

type noopMetricsSink struct{}

func (noopMetricsSink) RecordLeaseWaitTime(time.Duration)       {}
func (noopMetricsSink) RecordPreparationTime(time.Duration)     {}
func (noopMetricsSink) RecordLeaseException(error)              {}
func (noopMetricsSink) RecordPreparationException(error)        {}
func (noopMetricsSink) RegisterItemsAllocatedObserver(string, Sampler)   {}
func (noopMetricsSink) RegisterItemsAvailableObserver(string, Sampler)   {}
func (noopMetricsSink) RegisterActiveLeasesObserver(string, Sampler)     {}
func (noopMetricsSink) RegisterQueuedLeasesObserver(string, Sampler)     {}
func (noopMetricsSink) RegisterUtilizationRateObserver(string, Sampler)  {}

// NoopMetricsSink returns a MetricsSink that discards everything. It is
// the default sink for a Pool constructed without WithMetricsSink.
func NoopMetricsSink() MetricsSink { return noopMetricsSink{} }
