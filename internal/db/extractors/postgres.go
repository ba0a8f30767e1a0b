package extractors

import (
	"context"
	"database/sql"
	"fmt"

	"pbextract/internal/db"
	"pbextract/internal/schema"
)

// pgExtractor implements Extractor for a PostgreSQL copy of the collections table.
type pgExtractor struct{}

// This is the extractor for PostgreSQL
func (pgExtractor) Extract(ctx context.Context, dbConn *sql.DB) ([]schema.RawCollection, error) {
	var found bool
	err := dbConn.QueryRowContext(ctx, `
        SELECT EXISTS (
          SELECT 1 FROM information_schema.tables
          WHERE table_name = $1
            AND table_schema NOT IN ('pg_catalog','information_schema','pg_toast'))`,
		db.CollectionsTable).Scan(&found)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	if !found {
		return nil, db.ErrNoCollectionsTable
	}
	// schema may be json or jsonb; both scan as text
	return db.QueryCollections(ctx, dbConn,
		`SELECT id, type, name, schema::text FROM "_collections" ORDER BY id`)
}

func init() {
	db.Register("postgres", pgExtractor{})
	db.Register("postgresql", pgExtractor{})
}
