package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"pbextract/internal/logger"
	"pbextract/internal/schema"
	"pbextract/pkg/config"
)

// CollectionsTable is the table PocketBase stores its collection definitions in.
const CollectionsTable = "_collections"

// ErrNoCollectionsTable is returned by extractors when the database has no
// _collections table, i.e. it is not a PocketBase database.
var ErrNoCollectionsTable = errors.New("no " + CollectionsTable + " table")

type Extractor interface {

	// Extract takes a database connection and returns the rows of the collections table
	Extract(ctx context.Context, db *sql.DB) ([]schema.RawCollection, error)
}

var dialects = map[string]Extractor{}

// Register makes an Extractor available under name.
func Register(name string, e Extractor) {
	dialects[strings.ToLower(name)] = e
}

// listRegistered returns the registered dialect keys (for diagnostics).
func listRegistered() []string {
	keys := make([]string, 0, len(dialects))
	for k := range dialects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConnectAndExtract connects to the database and reads its collection records
func ConnectAndExtract(ctx context.Context, driver, dsn string, timeoutSec int) ([]schema.RawCollection, error) {
	driver = config.NormalizeDriver(driver)
	extractor, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("dialect not registered: %q (available: %v)", driver, listRegistered())
	}
	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		return nil, err
	}
	rows, err := extractor.Extract(ctx, dbConn)
	if err != nil {
		return nil, err
	}
	logger.Debug("read %d collections via %s", len(rows), driver)
	return rows, nil
}

// RegisteredDialects is a helper that allows main to print registered dialects
func RegisteredDialects() []string {
	return listRegistered()
}

// QueryCollections runs query, which must select id, type, name and schema
// in that order, and scans every row.
func QueryCollections(ctx context.Context, dbConn *sql.DB, query string) ([]schema.RawCollection, error) {
	rows, err := dbConn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var out []schema.RawCollection
	for rows.Next() {
		var id, typ, name, fields sql.NullString
		if err := rows.Scan(&id, &typ, &name, &fields); err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		out = append(out, schema.RawCollection{
			ID:     id.String,
			Type:   typ.String,
			Name:   name.String,
			Schema: []byte(fields.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read collections: %w", err)
	}
	return out, nil
}
