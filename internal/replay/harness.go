package replay

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/orchestrator"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region types
// Interaction represents a single recorded turn for replay.
type Interaction struct {
	TurnID       string
	Text         string
	Similarities []neural.Similarity
}

// ReplayConfig sets up the pipeline a replay runs through.
type ReplayConfig struct {
	Strictness rubric.Level
	Seeds      []seed.Seed
	Logger     *zap.Logger
}

// DefaultReplayConfig returns the moderate preset with no seeds.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{Strictness: rubric.LevelModerate}
}

// ReplayResult captures the outcome of replaying one interaction through the full pipeline.
type ReplayResult struct {
	TurnID       string
	Action       string // "approved" | "fallback"
	Reason       string
	ResponseType string
	Label        string
	Text         string
	Violations   []string
	Quality      float64
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTurns int
	Approved   int
	Fallbacks  int
	Violations map[string]int
	AvgQuality float64
}

// #endregion types

// #region replay
// Replay runs the interactions in order through one in-memory pipeline and a
// single conversation. Nothing is persisted and no generator is attached.
func Replay(interactions []Interaction, config ReplayConfig) ([]ReplayResult, error) {
	holder := rubric.NewStrictnessHolder(rubric.DefaultStrictness())
	if config.Strictness != "" {
		if err := holder.SetLevel(config.Strictness); err != nil {
			return nil, err
		}
	}

	ocfg := orchestrator.DefaultConfig()
	ocfg.Trigger = "replay"
	o := orchestrator.New(orchestrator.Deps{
		Strictness: holder,
		Seeds:      seed.NewCatalogue(config.Seeds),
		Logger:     config.Logger,
	}, ocfg)
	conv := orchestrator.NewConversation()

	results := make([]ReplayResult, 0, len(interactions))
	for _, inter := range interactions {
		res := o.Process(context.Background(), orchestrator.Request{
			Text:         inter.Text,
			Similarities: inter.Similarities,
			Conversation: conv,
		})

		r := ReplayResult{
			TurnID:       inter.TurnID,
			Action:       "approved",
			Reason:       res.Constraint.Reason,
			ResponseType: res.Decision.ResponseType.String(),
			Label:        string(res.Decision.Label),
			Text:         res.Text,
			Violations:   res.Constraint.Violations,
		}
		if res.Fallback {
			r.Action = "fallback"
		}
		if res.Eval != nil {
			r.Quality = res.Eval.Quality
		}
		results = append(results, r)
	}
	o.Wait()
	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{
		TotalTurns: len(results),
		Violations: make(map[string]int),
	}
	var quality float64
	for _, r := range results {
		switch r.Action {
		case "approved":
			s.Approved++
		case "fallback":
			s.Fallbacks++
		}
		for _, v := range r.Violations {
			s.Violations[v]++
		}
		quality += r.Quality
	}
	if len(results) > 0 {
		s.AvgQuality = quality / float64(len(results))
	}
	return s
}

// #endregion replay
