package progress

import (
	"context"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
)

// LogSink writes events to a zap logger at debug level, failures at warn.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume implements Sink.
func (s *LogSink) Consume(_ context.Context, evt Event) error {
	fields := []zap.Field{
		zap.String("run_id", evt.RunID.String()),
		zap.String("stage", string(evt.Stage)),
		zap.String("word", evt.Word),
		zap.String("outcome", string(evt.Outcome)),
		zap.Duration("dur", evt.Dur),
	}
	if evt.Note != "" {
		fields = append(fields, zap.String("note", evt.Note))
	}
	if evt.Outcome == OutcomeFailed {
		s.logger.Warn("stage item failed", fields...)
		return nil
	}
	s.logger.Debug("stage item", fields...)
	return nil
}

// Close implements Sink.
func (s *LogSink) Close(context.Context) error { return nil }

// MetricsSink mirrors events into the Prometheus stage counters.
type MetricsSink struct{}

// NewMetricsSink constructs a MetricsSink. metrics.Init must have run.
func NewMetricsSink() *MetricsSink {
	return &MetricsSink{}
}

// Consume implements Sink.
func (s *MetricsSink) Consume(_ context.Context, evt Event) error {
	metrics.ObserveStageItem(string(evt.Stage), string(evt.Outcome))
	return nil
}

// Close implements Sink.
func (s *MetricsSink) Close(context.Context) error { return nil }
