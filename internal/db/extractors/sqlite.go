package extractors

import (
	"context"
	"database/sql"
	"fmt"

	"pbextract/internal/db"
	"pbextract/internal/schema"
)

// sqliteExtractor implements Extractor for SQLite, the store PocketBase ships with.
type sqliteExtractor struct{}

// This is the extractor for SQLite
func (sqliteExtractor) Extract(ctx context.Context, dbConn *sql.DB) ([]schema.RawCollection, error) {
	var n int
	err := dbConn.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, db.CollectionsTable).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	if n == 0 {
		return nil, db.ErrNoCollectionsTable
	}
	return db.QueryCollections(ctx, dbConn, "select id, type, name, schema from `_collections`")
}

func init() {
	db.Register("sqlite3", sqliteExtractor{})
	db.Register("sqlite", sqliteExtractor{})
}
