package extractors

import (
	"context"
	"database/sql"
	"fmt"

	"pbextract/internal/db"
	"pbextract/internal/schema"
)

// myExtractor implements Extractor for a MySQL copy of the collections table.
type myExtractor struct{}

// This is the extractor for MySQL
func (myExtractor) Extract(ctx context.Context, dbConn *sql.DB) ([]schema.RawCollection, error) {
	var n int
	err := dbConn.QueryRowContext(ctx, `
        SELECT count(*) FROM information_schema.tables
        WHERE table_schema = DATABASE() AND table_name = ?`, db.CollectionsTable).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	if n == 0 {
		return nil, db.ErrNoCollectionsTable
	}
	return db.QueryCollections(ctx, dbConn,
		"SELECT id, type, name, CAST(`schema` AS CHAR) FROM `_collections` ORDER BY id")
}

func init() {
	db.Register("mysql", myExtractor{})
	db.Register("mariadb", myExtractor{})
}
