package leasepool

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// OtelMetricsSink is a MetricsSink backed by an OpenTelemetry Meter. It
// records lease/preparation timing as histograms, exceptions as
// counters, and wires the five pool observables as asynchronous
// gauges — one instrument per (poolName, metric) pair, named
// "{poolName}.{metric}".
type OtelMetricsSink struct {
	meter metric.Meter

	leaseWaitTime    metric.Float64Histogram
	preparationTime  metric.Float64Histogram
	leaseExceptions  metric.Int64Counter
	prepExceptions   metric.Int64Counter
}

// NewOtelMetricsSink builds an OtelMetricsSink against the given Meter,
// typically obtained from an otel/sdk/metric MeterProvider.
func NewOtelMetricsSink(meter metric.Meter) (*OtelMetricsSink, error) {
	leaseWaitTime, err := meter.Float64Histogram(
		"leasepool.lease_wait_time",
		metric.WithUnit("s"),
		metric.WithDescription("time a caller waited for a leased instance"),
	)
	if err != nil {
		return nil, err
	}

	preparationTime, err := meter.Float64Histogram(
		"leasepool.preparation_time",
		metric.WithUnit("s"),
		metric.WithDescription("time spent preparing an instance before handing it out"),
	)
	if err != nil {
		return nil, err
	}

	leaseExceptions, err := meter.Int64Counter(
		"leasepool.lease_exceptions",
		metric.WithDescription("count of lease failures"),
	)
	if err != nil {
		return nil, err
	}

	prepExceptions, err := meter.Int64Counter(
		"leasepool.preparation_exceptions",
		metric.WithDescription("count of preparation failures"),
	)
	if err != nil {
		return nil, err
	}

	return &OtelMetricsSink{
		meter:           meter,
		leaseWaitTime:   leaseWaitTime,
		preparationTime: preparationTime,
		leaseExceptions: leaseExceptions,
		prepExceptions:  prepExceptions,
	}, nil
}

func (s *OtelMetricsSink) RecordLeaseWaitTime(d time.Duration) {
	s.leaseWaitTime.Record(context.Background(), d.Seconds())
}

func (s *OtelMetricsSink) RecordPreparationTime(d time.Duration) {
	s.preparationTime.Record(context.Background(), d.Seconds())
}

func (s *OtelMetricsSink) RecordLeaseException(err error) {
	s.leaseExceptions.Add(context.Background(), 1)
}

func (s *OtelMetricsSink) RecordPreparationException(err error) {
	s.prepExceptions.Add(context.Background(), 1)
}

func (s *OtelMetricsSink) registerGauge(name, poolName string, sample Sampler) {
	gauge, err := s.meter.Float64ObservableGauge(poolName + "." + name)
	if err != nil {
		return
	}
	_, _ = s.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveFloat64(gauge, sample())
		return nil
	}, gauge)
}

func (s *OtelMetricsSink) RegisterItemsAllocatedObserver(poolName string, sample Sampler) {
	s.registerGauge("items_allocated", poolName, sample)
}

func (s *OtelMetricsSink) RegisterItemsAvailableObserver(poolName string, sample Sampler) {
	s.registerGauge("items_available", poolName, sample)
}

func (s *OtelMetricsSink) RegisterActiveLeasesObserver(poolName string, sample Sampler) {
	s.registerGauge("active_leases", poolName, sample)
}

func (s *OtelMetricsSink) RegisterQueuedLeasesObserver(poolName string, sample Sampler) {
	s.registerGauge("queued_leases", poolName, sample)
}

func (s *OtelMetricsSink) RegisterUtilizationRateObserver(poolName string, sample Sampler) {
	s.registerGauge("utilization_rate", poolName, sample)
}
