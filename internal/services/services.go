package services

import (
	"context"
	"time"

	"github.com/hydroeval/hydroeval/internal/archive"
	"github.com/hydroeval/hydroeval/internal/cache"
	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/events"
	"github.com/hydroeval/hydroeval/internal/history"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/telemetry"
	"github.com/hydroeval/hydroeval/internal/utils"
)

// Dependencies are the collaborators shared by the services. Every field
// except Logger may be nil, which disables that concern.
type Dependencies struct {
	Logger   *logging.Logger
	Cache    cache.Cache
	CacheTTL time.Duration
	History  history.Store
	Events   *events.Emitter
	Archive  archive.Store
	Recorder *telemetry.Recorder
	Batch    config.BatchConfig
}

// completion is one successful analysis to fan out
type completion struct {
	name    string
	nPoints int
	metrics map[string]float64
	notes   string
}

// sinks fans completed analyses out to history and events. Failures are
// logged and counted but never returned to the caller.
type sinks struct {
	logger   *logging.Logger
	history  history.Sink
	emitter  *events.Emitter
	recorder *telemetry.Recorder
}

func newSinks(deps Dependencies) *sinks {
	return &sinks{
		logger:   deps.Logger,
		history:  deps.History,
		emitter:  deps.Events,
		recorder: deps.Recorder,
	}
}

func (s *sinks) completed(ctx context.Context, source string, items []completion) {
	if len(items) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.SinkTimeout)
	defer cancel()

	if s.history != nil {
		for _, item := range items {
			rec := &history.Record{
				Source:  source,
				Name:    item.name,
				NPoints: item.nPoints,
				RMSE:    floatOf(item.metrics, "RMSE"),
				NSC:     floatOf(item.metrics, "NSC"),
				Cor:     floatOf(item.metrics, "Cor"),
				KGE2009: floatOf(item.metrics, "KGE2009"),
				Metrics: item.metrics,
				Notes:   item.notes,
			}
			if err := s.history.Record(ctx, rec); err != nil {
				s.recorder.IncSinkError("history")
				s.logger.Warn("Failed to record analysis history", "name", item.name, "error", err)
			}
		}
	}

	if s.emitter != nil {
		evts := make([]events.AnalysisCompleted, len(items))
		for i, item := range items {
			evts[i] = events.NewAnalysisCompleted(source, item.name, item.nPoints, item.metrics)
		}

		var err error
		if len(evts) == 1 {
			err = s.emitter.Emit(ctx, evts[0])
		} else {
			_, err = s.emitter.EmitBatch(ctx, evts)
		}
		if err != nil {
			s.recorder.IncSinkError("events")
			s.logger.Warn("Failed to publish analysis events", "count", len(evts), "error", err)
		}
	}
}
