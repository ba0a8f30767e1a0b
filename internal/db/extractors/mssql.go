package extractors

import (
	"context"
	"database/sql"
	"fmt"

	"pbextract/internal/db"
	"pbextract/internal/schema"
)

// mssqlExtractor implements Extractor for a SQL Server copy of the collections table.
type mssqlExtractor struct{}

// This is the extractor for Microsoft SQL Server
func (mssqlExtractor) Extract(ctx context.Context, dbConn *sql.DB) ([]schema.RawCollection, error) {
	var n int
	err := dbConn.QueryRowContext(ctx, `
        SELECT count(*)
        FROM sys.tables AS t
        WHERE t.name = @p1`, db.CollectionsTable).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	if n == 0 {
		return nil, db.ErrNoCollectionsTable
	}
	return db.QueryCollections(ctx, dbConn,
		`SELECT [id], [type], [name], CAST([schema] AS NVARCHAR(MAX)) FROM [_collections] ORDER BY [id]`)
}

func init() {
	db.Register("sqlserver", mssqlExtractor{})
	db.Register("mssql", mssqlExtractor{})
}
