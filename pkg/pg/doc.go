// Package pg opens the PostgreSQL pool used by the postgres content backend
// and migrates the page_content table it reads from.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	provider := content.NewPostgresProvider(pool)
//
// The schema ships embedded in the binary and is applied with goose. Config is
// read from PG_* environment variables.
package pg
