//go:build oracle
// +build oracle

package extractors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/godror/godror"

	"pbextract/internal/db"
	"pbextract/internal/schema"
)

// oracleExtractor implements Extractor for an Oracle copy of the collections table.
type oracleExtractor struct{}

// This is the extractor for Oracle
func (oracleExtractor) Extract(ctx context.Context, dbConn *sql.DB) ([]schema.RawCollection, error) {
	var n int
	err := dbConn.QueryRowContext(ctx, `
	    SELECT count(*)
	    FROM user_tables
	    WHERE table_name = :1`, db.CollectionsTable).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	if n == 0 {
		return nil, db.ErrNoCollectionsTable
	}
	// quoted identifiers keep the lower-case column names; godror reads the CLOB as text
	return db.QueryCollections(ctx, dbConn,
		`SELECT "id", "type", "name", "schema" FROM "_collections" ORDER BY "id"`)
}

func init() {
	db.Register("godror", oracleExtractor{})
	db.Register("oracle", oracleExtractor{})
}
