package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"textile-assistant/internal/vectorstore"
)

// Store keeps records in a single PostgreSQL table with a pgvector embedding
// column and a jsonb metadata column. Nearest-neighbor search uses the
// cosine distance operator, filtered gets use jsonb ->> lookups.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

func New(pool *pgxpool.Pool, table string) *Store {
	if table == "" {
		table = "order_records"
	}
	return &Store{pool: pool, table: table}
}

// NewPool opens a pgx pool from a connection string and verifies connectivity.
func NewPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	if connStr == "" {
		return nil, errors.New("postgres connection string not set")
	}
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	_, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        text PRIMARY KEY,
			document  text NOT NULL,
			metadata  jsonb NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.table, dimension))
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, records []vectorstore.Record) error {
	for _, r := range records {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", r.ID, err)
		}
		_, err = s.pool.Exec(ctx, fmt.Sprintf(
			"INSERT INTO %s (id, document, metadata, embedding) VALUES ($1, $2, $3, $4)", s.table),
			r.ID, r.Document, meta, vectorLiteral(r.Vector),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: %s", vectorstore.ErrDuplicateID, r.ID)
			}
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, filter map[string]string) ([]vectorstore.Record, error) {
	query := fmt.Sprintf("SELECT id, document, metadata FROM %s", s.table)
	var args []any
	var conds []string
	for k, v := range filter {
		args = append(args, k, v)
		conds = append(conds, fmt.Sprintf("metadata->>$%d = $%d", len(args)-1, len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtered get: %w", err)
	}
	defer rows.Close()

	var out []vectorstore.Record
	for rows.Next() {
		var r vectorstore.Record
		var meta []byte
		if err := rows.Scan(&r.ID, &r.Document, &meta); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal(meta, &r.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Search(ctx context.Context, vector []float64, topK int) ([]vectorstore.Scored, error) {
	if topK <= 0 {
		topK = 5
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, document, metadata, embedding <=> $1 AS distance
		FROM %s
		ORDER BY distance
		LIMIT $2`, s.table),
		vectorLiteral(vector), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var out []vectorstore.Scored
	for rows.Next() {
		var sc vectorstore.Scored
		var meta []byte
		if err := rows.Scan(&sc.ID, &sc.Document, &meta, &sc.Distance); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		if err := json.Unmarshal(meta, &sc.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", sc.ID, err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", s.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.table))
	if err != nil {
		return fmt.Errorf("reset %s: %w", s.table, err)
	}
	return nil
}

// vectorLiteral renders a vector in pgvector's text input format: [1,2,3].
func vectorLiteral(v []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
