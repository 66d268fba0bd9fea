// Package progress routes per-unit completion ticks from the pipeline to
// whoever is watching a run.
package progress

import "go.uber.org/zap"

// Reporter receives one tick per completed repository during ingestion and
// one per completed batch during analysis.
type Reporter interface {
	RepoFetched(done, total int)
	BatchAnalyzed(done, total int)
}

// LogReporter emits ticks through the structured logger.
type LogReporter struct {
	logger *zap.Logger
}

func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) RepoFetched(done, total int) {
	r.logger.Info("repository fetched", zap.Int("done", done), zap.Int("total", total))
}

func (r *LogReporter) BatchAnalyzed(done, total int) {
	r.logger.Info("batch analyzed", zap.Int("done", done), zap.Int("total", total))
}

// Noop discards ticks.
type Noop struct{}

func (Noop) RepoFetched(done, total int)   {}
func (Noop) BatchAnalyzed(done, total int) {}
