package orchestrator

// #region imports
import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/neurosym-core/internal/codec"
	"github.com/danielpatrickdp/neurosym-core/internal/decision"
	"github.com/danielpatrickdp/neurosym-core/internal/eval"
	"github.com/danielpatrickdp/neurosym-core/internal/fusion"
	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/metrics"
	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/signals"
	"github.com/danielpatrickdp/neurosym-core/internal/symbolic"
	"github.com/danielpatrickdp/neurosym-core/internal/weights"
)

// #endregion

// #region deps

// Deps are the collaborators of the pipeline. Nil fields get in-process
// defaults; a nil Generator, Retriever, Recorder or DB disables that step.
type Deps struct {
	Rubrics    *rubric.Catalogue
	Synonyms   map[string][]string
	Strictness *rubric.StrictnessHolder
	Seeds      *seed.Catalogue
	Usage      *seed.UsageTracker
	Retriever  Retriever
	Generator  Generator
	Weights    fusion.WeightSource
	Recorder   weights.Recorder
	Verifier   *gate.Verifier
	DB         *sql.DB
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// #endregion

// #region orchestrator-struct

// Orchestrator runs the decision and fusion pipeline for one turn at a time;
// it is safe for concurrent use.
type Orchestrator struct {
	config     Config
	strictness *rubric.StrictnessHolder
	seeds      *seed.Catalogue
	usage      *seed.UsageTracker
	retriever  Retriever
	generator  Generator
	recorder   weights.Recorder
	verifier   *gate.Verifier
	db         *sql.DB
	metrics    *metrics.Metrics
	logger     *zap.Logger

	assessor  *rubric.Assessor
	matcher   *symbolic.Matcher
	maker     *decision.Maker
	assembler *fusion.Assembler
	producer  *signals.Producer
	harness   *eval.EvalHarness

	now func() time.Time
	wg  sync.WaitGroup
}

// #endregion

// #region constructor

// New wires an orchestrator.
func New(deps Deps, config Config) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Rubrics == nil {
		deps.Rubrics = rubric.NewCatalogue(rubric.DefaultDefinitions())
	}
	if deps.Synonyms == nil {
		deps.Synonyms = rubric.DefaultSynonyms()
	}
	if deps.Strictness == nil {
		deps.Strictness = rubric.NewStrictnessHolder(rubric.DefaultStrictness())
	}
	if deps.Seeds == nil {
		deps.Seeds = seed.NewCatalogue(nil)
	}
	if deps.Usage == nil {
		deps.Usage = seed.NewUsageTracker(nil, logger)
	}
	if deps.Verifier == nil {
		deps.Verifier = gate.NewVerifier(logger)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if config.GenerateTimeout <= 0 {
		config.GenerateTimeout = DefaultConfig().GenerateTimeout
	}

	return &Orchestrator{
		config:     config,
		strictness: deps.Strictness,
		seeds:      deps.Seeds,
		usage:      deps.Usage,
		retriever:  deps.Retriever,
		generator:  deps.Generator,
		recorder:   deps.Recorder,
		verifier:   deps.Verifier,
		db:         deps.DB,
		metrics:    deps.Metrics,
		logger:     logger.Named("orch"),
		assessor:   rubric.NewAssessor(deps.Rubrics, deps.Synonyms),
		matcher:    symbolic.NewMatcher(),
		maker:      decision.NewMaker(),
		assembler:  fusion.NewAssembler(deps.Weights, logger),
		producer:   signals.NewProducer(signals.DefaultProducerConfig()),
		harness:    eval.NewEvalHarness(eval.DefaultEvalConfig()),
		now:        time.Now,
	}
}

// Strictness exposes the holder so surfaces can switch presets at runtime.
func (o *Orchestrator) Strictness() *rubric.StrictnessHolder {
	return o.strictness
}

// Metrics returns the collectors the pipeline reports to.
func (o *Orchestrator) Metrics() *metrics.Metrics {
	return o.metrics
}

// Wait blocks until background learning from earlier runs has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// #endregion

// #region process

// Process runs one turn. It never fails: the result carries either the
// verified fused response or a fixed safe fallback.
func (o *Orchestrator) Process(ctx context.Context, req Request) Result {
	start := o.now()
	runID := uuid.NewString()
	strict := o.strictness.Current()

	view := req.Conversation.begin(req.Text, start)
	var prev []TurnClassification
	if view.prev != nil {
		prev = append(prev, *view.prev)
	}
	turn := ClassifyTurn(req.Text, prev...)

	assessments, profile := o.assessor.AssessProfile(req.Text, strict)

	symMatches, neuMatches := o.match(ctx, req)
	dec := o.maker.Decide(symMatches, neuMatches, decision.Context{
		DislikedLabel: view.disliked,
		Risk:          &profile,
	})
	o.metrics.Decisions.WithLabelValues(dec.ResponseType.String()).Inc()
	seedScore := seedMatchScore(dec, symMatches)

	neuralText, neuralConf := o.generate(ctx, req.Text, turn, dec)

	// The symbolic plan is checked before fusion so the assembler knows
	// whether it may lean on the neural variant at all.
	pre := o.verifier.Verify(o.producer.Produce(signals.ProduceInput{
		Assessments:    assessments,
		Strictness:     strict,
		Profile:        profile,
		ResponseText:   dec.ResponseText,
		Label:          dec.Label,
		SeedMatchScore: seedScore,
	}))
	validated := neuralText == "" || len(fusion.IntentDeviation(dec.ResponseText, neuralText)) == 0

	fc := fusion.Context{
		SymbolicText:       dec.ResponseText,
		NeuralText:         neuralText,
		SymbolicConfidence: dec.Confidence,
		NeuralConfidence:   neuralConf,
		Emotion:            turn.Emotion,
		Validation:         fusion.Validation{Validated: validated, ConstraintsOK: pre.OK},
	}
	if view.pushback {
		d := pushbackDeviation
		fc.DeviationScore = &d
	}
	fused := o.assembler.Fuse(ctx, fc)
	o.metrics.Fusions.WithLabelValues(fused.Strategy.String(), fused.ContextType.String()).Inc()

	gctx := o.producer.Produce(signals.ProduceInput{
		Assessments:    assessments,
		Strictness:     strict,
		Profile:        profile,
		ResponseText:   fused.FusedResponse,
		Label:          dec.Label,
		SeedMatchScore: seedScore,
	})
	verdict := o.verifier.Verify(gctx)

	res := Result{
		RunID:      runID,
		Decision:   dec,
		Fusion:     fused,
		Constraint: verdict,
		Turn:       turn,
		Profile:    profile,
		Strictness: strict.Level,
	}

	if verdict.OK {
		res.Text = fused.FusedResponse
		if dec.Seed != nil {
			o.usage.RecordUse(dec.Seed.ID, start)
		}
	} else {
		kind, text := selectFallback(assessments, strict, gctx.Snapshot)
		res.Text = text
		res.Fallback = true
		o.metrics.Fallbacks.WithLabelValues(string(kind)).Inc()
		o.metrics.ObserveViolations(verdict.Violations)
		o.logger.Info("plan rejected, sending fallback",
			zap.String("run_id", runID),
			zap.String("reason", verdict.Reason),
			zap.Strings("violations", verdict.Violations),
			zap.String("fallback", string(kind)))
	}
	req.Conversation.finish(turn, dec.Label, res.Fallback)

	ev := o.harness.Run(eval.Input{
		SymbolicText:    dec.ResponseText,
		FusedText:       res.Text,
		FusedConfidence: fused.FusedConfidence,
		ConstraintOK:    verdict.OK,
	})
	res.Eval = &ev

	res.Elapsed = o.now().Sub(start)
	o.metrics.Latency.Observe(res.Elapsed.Seconds())

	o.logger.Debug("turn processed",
		zap.String("run_id", runID),
		zap.String("turn", string(turn.Type)),
		zap.Stringer("response_type", dec.ResponseType),
		zap.Stringer("fusion", fused.Strategy),
		zap.Bool("ok", verdict.OK),
		zap.Float64("quality", ev.Quality))

	o.learn(req.Text, res, gctx)
	return res
}

// pushbackDeviation marks a turn where the user rejected the last reply,
// which puts fusion in the user-agency context.
const pushbackDeviation = 0.2

// #endregion

// #region diagnose

// Diagnose returns the intermediate lists for text without touching usage,
// conversation state or learning.
func (o *Orchestrator) Diagnose(ctx context.Context, req Request) Diagnostics {
	strict := o.strictness.Current()
	assessments, profile := o.assessor.AssessProfile(req.Text, strict)
	symMatches, neuMatches := o.match(ctx, req)
	return Diagnostics{
		Assessments:     assessments,
		Profile:         profile,
		SymbolicMatches: symMatches,
		NeuralMatches:   neuMatches,
		Turn:            ClassifyTurn(req.Text),
	}
}

// #endregion

// #region match

// match runs the symbolic and neural branches concurrently.
func (o *Orchestrator) match(ctx context.Context, req Request) ([]symbolic.Match, []neural.Match) {
	var symMatches []symbolic.Match
	var neuMatches []neural.Match

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		seeds := req.Seeds
		if seeds == nil {
			seeds = o.seeds.Snapshot()
		}
		symMatches = o.matcher.Match(req.Text, o.usage.Apply(seeds))
		return nil
	})
	g.Go(func() error {
		sims := req.Similarities
		if sims == nil && o.retriever != nil {
			r := o.retriever.Retrieve(gctx, req.Text)
			if r.Degraded {
				o.metrics.Degraded.WithLabelValues("retrieval").Inc()
			}
			sims = r.Retrieved
		}
		neuMatches = neural.Evaluate(sims)
		return nil
	})
	_ = g.Wait()
	return symMatches, neuMatches
}

func seedMatchScore(dec decision.Decision, matches []symbolic.Match) float64 {
	if dec.Seed == nil {
		return 0
	}
	for _, m := range matches {
		if m.Seed.ID == dec.Seed.ID {
			return m.Score
		}
	}
	return 0
}

// #endregion

// #region generate

// generate asks for a neural variant of the decided text. Any failure,
// including a variant that fails the pre-fusion checks, yields "".
func (o *Orchestrator) generate(ctx context.Context, text string, turn TurnClassification, dec decision.Decision) (string, float64) {
	if o.generator == nil || dec.ResponseText == "" {
		return "", 0
	}
	gctx, cancel := context.WithTimeout(ctx, o.config.GenerateTimeout)
	defer cancel()

	out, err := o.generator.Generate(gctx, codec.GenerateRequest{
		SeedText: dec.ResponseText,
		UserText: text,
		Emotion:  turn.Emotion,
		Label:    string(dec.Label),
		Language: o.config.Language,
	})
	if err != nil {
		o.metrics.Degraded.WithLabelValues("generator").Inc()
		o.logger.Warn("generation failed, using symbolic core", zap.Error(err))
		return "", 0
	}

	ev := EvaluateVariant(text, dec.ResponseText, out.Text, o.config.MaxVariantRunes)
	if !ev.Usable() {
		o.metrics.Degraded.WithLabelValues("variant").Inc()
		o.logger.Debug("variant rejected", zap.String("failure", string(ev.FailureType)))
		return "", 0
	}
	conf := out.Confidence
	if conf <= 0 {
		conf = ev.Quality
	}
	return out.Text, conf
}

// #endregion
