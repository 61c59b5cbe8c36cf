package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/domain"
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN not provided")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}, nil
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}

// Collection stores documents of the named collection as JSONB rows.
func (p *Postgres) Collection(name string) Collection {
	return &pgCollection{pool: p.Pool, name: name}
}

func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close(context.Context) error {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
	return nil
}

type pgCollection struct {
	pool *pgxpool.Pool
	name string
}

// where renders the filter as a containment match on body plus an optional id match.
func (c *pgCollection) where(filter domain.Filter) (string, []any, error) {
	id, hasID, rest, err := splitID(filter)
	if err != nil {
		return "", nil, err
	}
	body, err := json.Marshal(rest)
	if err != nil {
		return "", nil, fmt.Errorf("encode filter: %w", err)
	}
	clause := "collection = $1 AND body @> $2::jsonb"
	args := []any{c.name, string(body)}
	if hasID {
		clause += " AND id = $3"
		args = append(args, id)
	}
	return clause, args, nil
}

func (c *pgCollection) FindOne(ctx context.Context, filter domain.Filter) (domain.Document, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, body FROM documents WHERE ` + clause + ` ORDER BY created_at, id LIMIT 1`

	var (
		id   string
		body []byte
	)
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&id, &body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeRow(id, body)
}

func (c *pgCollection) Find(ctx context.Context, filter domain.Filter) ([]domain.Document, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, body FROM documents WHERE ` + clause + ` ORDER BY created_at, id`

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		doc, err := decodeRow(id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (c *pgCollection) InsertOne(ctx context.Context, doc domain.Document) (*InsertResult, error) {
	fields := doc.Clone()
	delete(fields, domain.FieldID)
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	id := uuid.NewString()
	const query = `INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := c.pool.Exec(ctx, query, id, c.name, string(body)); err != nil {
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *pgCollection) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*UpdateResult, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	fields := set.Clone()
	delete(fields, domain.FieldID)
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	args = append(args, string(patch))

	query := fmt.Sprintf(`
        WITH target AS (
            SELECT id, body FROM documents WHERE %s ORDER BY created_at, id LIMIT 1 FOR UPDATE
        )
        UPDATE documents d SET body = d.body || $%d::jsonb
        FROM target WHERE d.id = target.id
        RETURNING target.body IS DISTINCT FROM d.body`, clause, len(args))

	var changed bool
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&changed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &UpdateResult{Acknowledged: true}, nil
		}
		return nil, err
	}
	res := &UpdateResult{Acknowledged: true, MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (c *pgCollection) DeleteOne(ctx context.Context, filter domain.Filter) (*DeleteResult, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	query := `DELETE FROM documents WHERE id = (
            SELECT id FROM documents WHERE ` + clause + ` ORDER BY created_at, id LIMIT 1)`

	cmd, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: cmd.RowsAffected()}, nil
}

func decodeRow(id string, body []byte) (domain.Document, error) {
	doc := domain.Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc[domain.FieldID] = id
	return doc, nil
}
