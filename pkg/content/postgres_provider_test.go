package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/pkg/content"
)

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

// fakeDB stores page rows in memory.
type fakeDB struct {
	rows     map[string][]byte
	queryErr error
	lastSQL  string
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.lastSQL = sql
	if db.queryErr != nil {
		return fakeRow{err: db.queryErr}
	}
	data, ok := db.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.lastSQL = sql
	db.rows[args[0].(string)] = args[1].([]byte)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch", func(t *testing.T) {
		db := &fakeDB{rows: map[string][]byte{"home": []byte(`{"hero":{"title":"DB"},"n":2}`)}}
		tree, err := content.NewPostgresProvider(db).Fetch(ctx, "home")
		require.NoError(t, err)
		assert.Equal(t, "DB", tree["hero"].(map[string]any)["title"])
		assert.Contains(t, db.lastSQL, "FROM page_content")
	})

	t.Run("null data", func(t *testing.T) {
		db := &fakeDB{rows: map[string][]byte{"home": nil}}
		tree, err := content.NewPostgresProvider(db).Fetch(ctx, "home")
		require.NoError(t, err)
		assert.Nil(t, tree)
	})

	t.Run("missing row", func(t *testing.T) {
		_, err := content.NewPostgresProvider(&fakeDB{rows: map[string][]byte{}}).Fetch(ctx, "home")
		assert.ErrorIs(t, err, content.ErrPageNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		db := &fakeDB{queryErr: errors.New("conn closed")}
		_, err := content.NewPostgresProvider(db).Fetch(ctx, "home")
		require.Error(t, err)
		assert.NotErrorIs(t, err, content.ErrPageNotFound)
	})

	t.Run("save", func(t *testing.T) {
		db := &fakeDB{rows: map[string][]byte{}}
		p := content.NewPostgresProvider(db)

		require.NoError(t, p.Save(ctx, "home", content.Tree{"title": "Saved"}))
		assert.Contains(t, db.lastSQL, "ON CONFLICT")
		assert.JSONEq(t, `{"title":"Saved"}`, string(db.rows["home"]))

		assert.ErrorIs(t, p.Save(ctx, "Bad ID", content.Tree{}), content.ErrInvalidPageID)
	})
}
