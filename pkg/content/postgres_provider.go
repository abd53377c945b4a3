package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	selectPageSQL = `SELECT data FROM page_content WHERE page_id = $1`
	upsertPageSQL = `INSERT INTO page_content (page_id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (page_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

// PostgresProvider reads page content from the page_content table.
type PostgresProvider struct {
	db Querier
}

func NewPostgresProvider(db Querier) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) Fetch(ctx context.Context, pageID string) (Tree, error) {
	if err := ValidatePageID(pageID); err != nil {
		return nil, err
	}

	var data []byte
	err := p.db.QueryRow(ctx, selectPageSQL, pageID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
	}
	if err != nil {
		return nil, fmt.Errorf("query page %s: %w", pageID, err)
	}
	return DecodeTree(data)
}

// Save upserts the page row. A nil data stores SQL NULL.
func (p *PostgresProvider) Save(ctx context.Context, pageID string, data Tree) error {
	if err := ValidatePageID(pageID); err != nil {
		return err
	}

	var payload []byte
	if data != nil {
		var err error
		if payload, err = json.Marshal(data); err != nil {
			return errors.Join(ErrInvalidPayload, err)
		}
	}
	if _, err := p.db.Exec(ctx, upsertPageSQL, pageID, payload); err != nil {
		return fmt.Errorf("save page %s: %w", pageID, err)
	}
	return nil
}
