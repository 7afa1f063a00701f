package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/codec"
	"github.com/danielpatrickdp/neurosym-core/internal/config"
	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/metrics"
	"github.com/danielpatrickdp/neurosym-core/internal/orchestrator"
	"github.com/danielpatrickdp/neurosym-core/internal/retrieval"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/store"
	"github.com/danielpatrickdp/neurosym-core/internal/weights"
)

// app is one fully wired pipeline with the resources it owns.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store
	codec  *codec.CodecClient
	cache  *weights.Cache
	seeds  *seed.Catalogue
	usage  *seed.UsageTracker
	orch   *orchestrator.Orchestrator
}

// newApp opens the store, loads catalogues and connects the codec. trigger
// is recorded on every provenance row.
func newApp(cfg config.Config, trigger string) (*app, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	a.store, err = store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store.SetLogger(logger)

	if cfg.SeedsFile != "" {
		if _, err := importSeeds(a.store, cfg.SeedsFile); err != nil {
			a.Close()
			return nil, err
		}
	}
	active, err := a.store.ActiveSeeds()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.seeds = seed.NewCatalogue(active)
	a.usage = seed.NewUsageTracker(a.store, logger)

	defs := rubric.DefaultDefinitions()
	if cfg.RubricFile != "" {
		if defs, err = rubric.LoadYAML(cfg.RubricFile); err != nil {
			a.Close()
			return nil, err
		}
	}

	preset, err := rubric.Preset(cfg.Strictness)
	if err != nil {
		a.Close()
		return nil, err
	}

	learned, err := weights.NewSQLiteStore(a.store.DB())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cache = weights.NewCache(learned, weights.CacheConfig{
		LookupTimeout:   cfg.Weights.LookupTimeout,
		RefreshInterval: cfg.Weights.RefreshInterval,
		FetchTimeout:    cfg.Weights.FetchTimeout,
	}, logger)

	deps := orchestrator.Deps{
		Rubrics:    rubric.NewCatalogue(defs),
		Synonyms:   rubric.DefaultSynonyms(),
		Strictness: rubric.NewStrictnessHolder(preset),
		Seeds:      a.seeds,
		Usage:      a.usage,
		Weights:    a.cache,
		Recorder:   learned,
		Verifier:   gate.NewVerifier(logger),
		DB:         a.store.DB(),
		Metrics:    metrics.New(),
		Logger:     logger,
	}

	if cfg.CodecAddr != "" {
		a.codec, err = codec.NewCodecClient(cfg.CodecAddr)
		if err != nil {
			a.Close()
			return nil, err
		}
		rcfg := retrieval.DefaultConfig()
		rcfg.SimilarityThreshold = cfg.Retrieval.SimilarityThreshold
		rcfg.TopK = cfg.Retrieval.TopK
		deps.Retriever = retrieval.NewRetriever(a.codec, a.store, rcfg, logger)
		if !cfg.Pipeline.DisableGenerate {
			deps.Generator = a.codec
		}
	}

	ocfg := orchestrator.DefaultConfig()
	ocfg.GenerateTimeout = cfg.Pipeline.GenerateTimeout
	ocfg.Language = cfg.Pipeline.Language
	ocfg.Trigger = trigger
	a.orch = orchestrator.New(deps, ocfg)

	logger.Info("pipeline ready",
		zap.String("db", cfg.DBPath),
		zap.String("codec", cfg.CodecAddr),
		zap.String("strictness", string(cfg.Strictness)),
		zap.Int("seeds", a.seeds.Len()))
	return a, nil
}

// reloadSeeds swaps the catalogue for the persisted one, which already
// includes the usage the tracker has flushed.
func (a *app) reloadSeeds() error {
	active, err := a.store.ActiveSeeds()
	if err != nil {
		return err
	}
	a.seeds.Swap(active)
	a.usage.Reset()
	return nil
}

// Close waits for background learning and releases everything.
func (a *app) Close() {
	if a.orch != nil {
		a.orch.Wait()
	}
	if a.cache != nil {
		a.cache.Wait()
	}
	if a.codec != nil {
		a.codec.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	a.logger.Sync()
}

// importSeeds upserts every seed in a YAML file.
func importSeeds(st *store.Store, path string) (int, error) {
	seeds, err := seed.LoadYAML(path)
	if err != nil {
		return 0, err
	}
	for _, s := range seeds {
		if _, err := st.UpsertSeed(s); err != nil {
			return 0, fmt.Errorf("import seed %q: %w", s.ID, err)
		}
	}
	return len(seeds), nil
}
