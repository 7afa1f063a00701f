package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/logging"
	"github.com/danielpatrickdp/neurosym-core/internal/weights"
)

const learnTimeout = 5 * time.Second

// learn records the fusion outcome and the provenance row after the response
// is ready. It runs detached; failures are logged and counted, never returned.
func (o *Orchestrator) learn(input string, res Result, gctx gate.Context) {
	if o.recorder == nil && o.db == nil {
		return
	}
	outcome := weights.Outcome{
		RunID:          res.RunID,
		ContextType:    res.Fusion.ContextType,
		SymbolicWeight: res.Fusion.SymbolicWeight,
		Accepted:       !res.Fallback,
		CreatedAt:      o.now(),
	}
	if res.Eval != nil {
		outcome.Quality = res.Eval.Quality
	}
	rec := decisionRecord(input, res, gctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				o.metrics.LearnErrors.Inc()
				o.logger.Warn("background learning panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), learnTimeout)
		defer cancel()

		if o.recorder != nil {
			if err := o.recorder.RecordOutcome(ctx, outcome); err != nil {
				o.metrics.LearnErrors.Inc()
				o.logger.Warn("record fusion outcome", zap.String("run_id", res.RunID), zap.Error(err))
			}
		}
		if o.db != nil {
			status := "approved"
			if res.Fallback {
				status = "fallback"
			}
			if err := logging.LogRecord(o.db, o.config.Trigger, status, res.Constraint.Reason, rec); err != nil {
				o.metrics.LearnErrors.Inc()
				o.logger.Warn("write provenance", zap.String("run_id", res.RunID), zap.Error(err))
			}
		}
	}()
}

func decisionRecord(input string, res Result, gctx gate.Context) logging.DecisionRecord {
	rec := logging.DecisionRecord{
		RunID:            res.RunID,
		Input:            input,
		Response:         res.Text,
		Strictness:       string(res.Strictness),
		Crisis:           gctx.Snapshot.Crisis,
		Distress:         gctx.Snapshot.Distress,
		Support:          gctx.Snapshot.Support,
		Coping:           gctx.Snapshot.Coping,
		ResponseType:     res.Decision.ResponseType.String(),
		Label:            string(res.Decision.Label),
		Confidence:       res.Decision.Confidence,
		ContextType:      res.Fusion.ContextType.String(),
		FusionStrategy:   res.Fusion.Strategy.String(),
		SymbolicWeight:   res.Fusion.SymbolicWeight,
		Preservation:     res.Fusion.PreservationScore,
		PlanStrategy:     string(gctx.Plan.Strategy),
		ConstraintOK:     res.Constraint.OK,
		ConstraintReason: res.Constraint.Reason,
		Violations:       res.Constraint.Violations,
	}
	if res.Decision.Seed != nil {
		rec.SeedID = res.Decision.Seed.ID
	}
	return rec
}
