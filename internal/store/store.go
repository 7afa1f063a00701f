package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS seeds (
	id            TEXT PRIMARY KEY,
	emotion       TEXT NOT NULL,
	triggers      TEXT NOT NULL,
	response      TEXT NOT NULL,
	label         TEXT NOT NULL,
	severity      TEXT NOT NULL DEFAULT 'none',
	weight        REAL NOT NULL DEFAULT 1,
	confidence    REAL,
	usage_count   INTEGER NOT NULL DEFAULT 0,
	last_used_at  TEXT,
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS content_vectors (
	id            TEXT PRIMARY KEY,
	content_type  TEXT NOT NULL,
	content_text  TEXT NOT NULL,
	vector        BLOB NOT NULL,
	metadata_json TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	context_hash  TEXT,
	trigger_type  TEXT NOT NULL,
	signals_json  TEXT,
	decision      TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store keeps seeds, indexed content vectors and the provenance log in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger

	mu      sync.Mutex
	entropy *rand.Rand
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		db:      db,
		logger:  zap.NewNop(),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetLogger routes skipped-row warnings to logger.
func (s *Store) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger.Named("store")
	}
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging, weights).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// #endregion close

// #region seeds
// UpsertSeed inserts or replaces a seed. An empty ID gets a fresh ULID.
// Usage counters of an existing seed are preserved.
func (s *Store) UpsertSeed(sd seed.Seed) (seed.Seed, error) {
	if sd.ID == "" {
		sd.ID = s.newID()
	}
	if sd.Severity == "" {
		sd.Severity = seed.SeverityNone
	}
	triggers, err := json.Marshal(sd.Triggers)
	if err != nil {
		return seed.Seed{}, fmt.Errorf("marshal triggers: %w", err)
	}

	var conf interface{}
	if sd.Confidence != nil {
		conf = *sd.Confidence
	}

	_, err = s.db.Exec(
		`INSERT INTO seeds (id, emotion, triggers, response, label, severity, weight, confidence, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   emotion = excluded.emotion, triggers = excluded.triggers, response = excluded.response,
		   label = excluded.label, severity = excluded.severity, weight = excluded.weight,
		   confidence = excluded.confidence, is_active = excluded.is_active`,
		sd.ID, sd.Emotion, string(triggers), sd.Response, string(sd.Label), string(sd.Severity),
		sd.Weight, conf, boolToInt(sd.IsActive), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return seed.Seed{}, fmt.Errorf("upsert seed %s: %w", sd.ID, err)
	}
	return sd, nil
}

// GetSeed returns one seed by id.
func (s *Store) GetSeed(id string) (seed.Seed, error) {
	row := s.db.QueryRow(`SELECT `+seedColumns+` FROM seeds WHERE id = ?`, id)
	sd, err := scanSeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return seed.Seed{}, fmt.Errorf("seed %s: %w", id, ErrNotFound)
	}
	return sd, err
}

// ActiveSeeds returns all active seeds in insertion order.
func (s *Store) ActiveSeeds() ([]seed.Seed, error) {
	rows, err := s.db.Query(`SELECT ` + seedColumns + ` FROM seeds WHERE is_active = 1 ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list seeds: %w", err)
	}
	defer rows.Close()

	var out []seed.Seed
	for rows.Next() {
		sd, err := scanSeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sd)
	}
	return out, rows.Err()
}

// Deactivate hides a seed from ActiveSeeds. Seeds are never deleted.
func (s *Store) Deactivate(id string) error {
	res, err := s.db.Exec(`UPDATE seeds SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deactivate %s: %w", id, ErrNotFound)
	}
	return nil
}

// IncrementUsage bumps usage_count and sets last_used_at.
func (s *Store) IncrementUsage(id string, at time.Time) error {
	res, err := s.db.Exec(
		`UPDATE seeds SET usage_count = usage_count + 1, last_used_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("increment usage %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("increment usage %s: %w", id, ErrNotFound)
	}
	return nil
}

const seedColumns = `id, emotion, triggers, response, label, severity, weight, confidence, usage_count, last_used_at, is_active`

type scanner interface {
	Scan(dest ...any) error
}

func scanSeed(r scanner) (seed.Seed, error) {
	var sd seed.Seed
	var triggers, label, severity string
	var conf sql.NullFloat64
	var lastUsed sql.NullString
	var active int

	if err := r.Scan(&sd.ID, &sd.Emotion, &triggers, &sd.Response, &label, &severity,
		&sd.Weight, &conf, &sd.UsageCount, &lastUsed, &active); err != nil {
		return seed.Seed{}, err
	}
	if err := json.Unmarshal([]byte(triggers), &sd.Triggers); err != nil {
		return seed.Seed{}, fmt.Errorf("unmarshal triggers for %s: %w", sd.ID, err)
	}
	sd.Label = seed.Label(label)
	sd.Severity = seed.Severity(severity)
	if conf.Valid {
		c := conf.Float64
		sd.Confidence = &c
	}
	if lastUsed.Valid {
		if t, err := time.Parse(time.RFC3339Nano, lastUsed.String); err == nil {
			sd.LastUsedAt = &t
		}
	}
	sd.IsActive = active == 1
	return sd, nil
}

// #endregion seeds

// #region content
// IndexContent stores or replaces an embedded piece of content.
func (s *Store) IndexContent(rec ContentRecord) error {
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	var meta interface{}
	if len(rec.Metadata) > 0 {
		b, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(b)
	}
	_, err := s.db.Exec(
		`INSERT INTO content_vectors (id, content_type, content_text, vector, metadata_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET content_type = excluded.content_type,
		   content_text = excluded.content_text, vector = excluded.vector,
		   metadata_json = excluded.metadata_json`,
		rec.ID, rec.ContentType, rec.Text, encodeVector(rec.Vector), meta,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("index content %s: %w", rec.ID, err)
	}
	return nil
}

// FindSimilar returns content whose cosine similarity to vector is at least
// threshold, best first, at most maxResults.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, threshold float64, maxResults int) ([]neural.Similarity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content_type, content_text, vector, metadata_json FROM content_vectors`)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	defer rows.Close()

	var out []neural.Similarity
	for rows.Next() {
		var sim neural.Similarity
		var blob []byte
		var meta sql.NullString
		if err := rows.Scan(&sim.ContentID, &sim.ContentType, &sim.ContentText, &blob, &meta); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		score := cosine(vector, decodeVector(blob))
		if score < threshold {
			continue
		}
		sim.SimilarityScore = &score
		if meta.Valid {
			if err := json.Unmarshal([]byte(meta.String), &sim.Metadata); err != nil {
				s.logger.Warn("skipping content with bad metadata",
					zap.String("id", sim.ContentID), zap.Error(err))
				continue
			}
		}
		out = append(out, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].SimilarityScore > *out[j].SimilarityScore
	})
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

// #endregion content

// #region provenance
// RecentProvenance returns the latest provenance rows, newest first.
func (s *Store) RecentProvenance(limit int) ([]ProvenanceRow, error) {
	rows, err := s.db.Query(
		`SELECT run_id, context_hash, trigger_type, signals_json, decision, reason, created_at
		 FROM provenance_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent provenance: %w", err)
	}
	defer rows.Close()

	var out []ProvenanceRow
	for rows.Next() {
		var r ProvenanceRow
		var hash, signals, reason sql.NullString
		var created string
		if err := rows.Scan(&r.RunID, &hash, &r.TriggerType, &signals, &r.Decision, &reason, &created); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.ContextHash = hash.String
		r.SignalsJSON = signals.String
		r.Reason = reason.String
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion provenance

// #region vector-encoding
func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

// cosine is 0 for mismatched dimensions or zero vectors.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion vector-encoding
