package pgStore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/CourseRAG/internal/domain/commonModels"
	"github.com/akolanti/CourseRAG/internal/metrics"
	"github.com/akolanti/CourseRAG/internal/rag/vectorDB"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

var (
	_ commonModels.DocumentStore = (*Store)(nil)
	_ commonModels.SegmentStore  = (*Store)(nil)
	_ vectorDB.VectorStore       = (*Store)(nil)
)

const uniqueViolation = "23505"

// Store keeps documents, segments and embeddings in PostgreSQL with the
// pgvector extension. Nearest runs the L2 search inside the database.
type Store struct {
	pool   *pgxpool.Pool
	logger *logger_i.Logger
}

// Open connects, registers the vector type on every pooled connection and
// creates the schema if needed.
func Open(ctx context.Context, dsn string, dimensions int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	s := &Store{logger: logger_i.NewLogger("Postgres")}

	// the extension must exist before AfterConnect can look the type up
	bootstrap, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	_, err = bootstrap.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	bootstrap.Close(ctx)
	if err != nil {
		return nil, fmt.Errorf("create vector extension: %w", err)
	}

	s.pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := s.migrate(ctx, dimensions); err != nil {
		s.pool.Close()
		return nil, err
	}
	s.logger.Info("Postgres store ready", "dimensions", dimensions)
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) migrate(ctx context.Context, dimensions int) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			file_path TEXT PRIMARY KEY,
			course_id INTEGER NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS segments (
			id BIGSERIAL PRIMARY KEY,
			text TEXT NOT NULL,
			document_id TEXT NOT NULL REFERENCES documents(file_path)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS embeddings (
			id BIGSERIAL PRIMARY KEY,
			segment_id BIGINT NOT NULL UNIQUE REFERENCES segments(id),
			vector vector(%d) NOT NULL
		)`, dimensions),
		`CREATE INDEX IF NOT EXISTS embeddings_vector_hnsw ON embeddings USING hnsw (vector vector_l2_ops)`,
		`CREATE INDEX IF NOT EXISTS documents_course_active ON documents (course_id) WHERE is_active`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) AddDocument(ctx context.Context, path string, courseID int) (commonModels.DocumentRef, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (file_path, course_id, is_active) VALUES ($1, $2, TRUE)`, path, courseID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return commonModels.DocumentRef{}, commonModels.ErrDocumentExists
		}
		return commonModels.DocumentRef{}, err
	}
	return commonModels.DocumentRef{Path: path, CourseID: courseID, Active: true}, nil
}

func (s *Store) GetDocument(ctx context.Context, path string) (commonModels.DocumentRef, error) {
	doc := commonModels.DocumentRef{Path: path}
	err := s.pool.QueryRow(ctx,
		`SELECT course_id, is_active FROM documents WHERE file_path = $1`, path).Scan(&doc.CourseID, &doc.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return commonModels.DocumentRef{}, commonModels.ErrDocumentNotFound
	}
	return doc, err
}

func (s *Store) SetInactive(ctx context.Context, path string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE documents SET is_active = FALSE WHERE file_path = $1`, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return commonModels.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]string, error) {
	return s.paths(ctx, `SELECT file_path FROM documents WHERE is_active ORDER BY file_path`)
}

func (s *Store) ListActiveByCourse(ctx context.Context, courseID int) ([]string, error) {
	return s.paths(ctx, `SELECT file_path FROM documents WHERE is_active AND course_id = $1 ORDER BY file_path`, courseID)
}

func (s *Store) paths(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	paths, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

func (s *Store) StoreSegment(ctx context.Context, text string, documentPath string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO segments (text, document_id) VALUES ($1, $2) RETURNING id`, text, documentPath).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, commonModels.ErrDocumentNotFound
		}
		return 0, err
	}
	return id, nil
}

func (s *Store) StoreEmbedding(ctx context.Context, segment commonModels.Segment, vector []float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO embeddings (segment_id, vector) VALUES ($1, $2)
		 ON CONFLICT (segment_id) DO UPDATE SET vector = EXCLUDED.vector`,
		segment.ID, pgvector.NewVector(vectorDB.ToFloat32(vector)))
	return err
}

func (s *Store) Nearest(ctx context.Context, courseID int, query []float64, k int) ([]commonModels.NearestMatch, error) {
	if k <= 0 {
		return []commonModels.NearestMatch{}, nil
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.text, s.document_id, e.vector <-> $1 AS distance
		FROM embeddings e
		JOIN segments s ON s.id = e.segment_id
		JOIN documents d ON d.file_path = s.document_id
		WHERE d.is_active AND d.course_id = $2
		ORDER BY distance, s.id
		LIMIT $3`,
		pgvector.NewVector(vectorDB.ToFloat32(query)), courseID, k)
	if err != nil {
		s.logger.ForContext(ctx).Error("Nearest query failed", "error", err)
		return nil, err
	}
	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (commonModels.NearestMatch, error) {
		var m commonModels.NearestMatch
		err := row.Scan(&m.SegmentID, &m.Text, &m.DocumentID, &m.Distance)
		return m, err
	})
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []commonModels.NearestMatch{}
	}
	return matches, nil
}
