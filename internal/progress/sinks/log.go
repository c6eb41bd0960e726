package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/progress"
)

// LogSink emits one structured log line per import progress event.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.String("job_id", evt.JobID),
			zap.String("stage", evt.Stage),
			zap.String("status", string(evt.Status)),
			zap.Int64("processed_rows", evt.ProcessedRows),
			zap.Int64("total_rows", evt.TotalRows),
			zap.Int("percent", evt.Percent),
		}
		if evt.Source != "" {
			fields = append(fields, zap.String("source", evt.Source))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		s.logger.Info("import progress", fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
