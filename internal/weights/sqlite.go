package weights

// #region imports
import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// #endregion

// #region schema

const fusionOutcomesSchema = `
CREATE TABLE IF NOT EXISTS fusion_outcomes (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id           TEXT NOT NULL,
    context_type     TEXT NOT NULL,
    symbolic_weight  REAL NOT NULL,
    quality          REAL NOT NULL,
    accepted         INTEGER NOT NULL DEFAULT 0,
    created_at       TEXT NOT NULL
);
`

const fusionOutcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_fusion_outcomes_lookup
ON fusion_outcomes(context_type, accepted);
`

// #endregion

// #region outcome

// Outcome is one fusion result fed back for learning.
type Outcome struct {
	RunID          string
	ContextType    ContextType
	SymbolicWeight float64
	Quality        float64
	Accepted       bool
	CreatedAt      time.Time
}

// #endregion

// #region sqlite-store

const (
	minSamples  = 3
	halfLifeHrs = 7.0 * 24.0
)

// SQLiteStore persists fusion outcomes and derives decay-weighted blend ratios.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore initializes the fusion_outcomes table.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(fusionOutcomesSchema); err != nil {
		return nil, fmt.Errorf("migrate fusion_outcomes: %w", err)
	}
	if _, err := db.Exec(fusionOutcomesIndex); err != nil {
		return nil, fmt.Errorf("index fusion_outcomes: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// RecordOutcome implements Recorder.
func (s *SQLiteStore) RecordOutcome(ctx context.Context, o Outcome) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	accepted := 0
	if o.Accepted {
		accepted = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fusion_outcomes
		(run_id, context_type, symbolic_weight, quality, accepted, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.RunID,
		o.ContextType.String(),
		o.SymbolicWeight,
		o.Quality,
		accepted,
		o.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record fusion outcome: %w", err)
	}
	return nil
}

// GetWeights returns the quality- and recency-weighted mean symbolic weight of
// accepted outcomes for ct. Fewer than three samples yields ErrNoData.
func (s *SQLiteStore) GetWeights(ctx context.Context, ct ContextType) (Weights, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbolic_weight, quality, created_at
		FROM fusion_outcomes
		WHERE context_type = ? AND accepted = 1`,
		ct.String(),
	)
	if err != nil {
		return Weights{}, fmt.Errorf("query fusion outcomes: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var weightedSum, totalWeight float64
	count := 0
	for rows.Next() {
		var symbolic, quality float64
		var createdAtStr string
		if err := rows.Scan(&symbolic, &quality, &createdAtStr); err != nil {
			return Weights{}, fmt.Errorf("scan fusion outcome: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}
		w := decayWeight(now.Sub(createdAt), quality)
		weightedSum += symbolic * w
		totalWeight += w
		count++
	}
	if err := rows.Err(); err != nil {
		return Weights{}, err
	}

	if count < minSamples || totalWeight == 0 {
		return Weights{}, ErrNoData
	}
	return FromSymbolic(weightedSum / totalWeight), nil
}

// decayWeight halves an outcome's influence every halfLifeHrs. Negative
// quality counts as zero.
func decayWeight(age time.Duration, quality float64) float64 {
	return math.Exp(-age.Hours()*math.Ln2/halfLifeHrs) * math.Max(quality, 0)
}

// #endregion
