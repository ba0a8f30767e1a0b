package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pbextract/internal/schema"
	"pbextract/pkg/config"
)

var (
	ErrFileNotFound    = errors.New("File not found")
	ErrInvalidDatabase = errors.New("Invalid database")
)

// FileTimeout bounds opening and querying a local database file, in seconds.
const FileTimeout = 10

// ReadFile reads every collection, system collections included, from a
// PocketBase data file opened read-only. The sqlite dialect must be
// registered, see package extractors.
func ReadFile(ctx context.Context, path string) ([]schema.RawCollection, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrInvalidDatabase, path)
	}

	driver, dsn, err := config.BuildDriverAndDSN(config.DBConfig{Type: "sqlite", DatabaseName: path})
	if err != nil {
		return nil, err
	}
	rows, err := ConnectAndExtract(ctx, driver, dsn, FileTimeout)
	if err != nil {
		if isNotADatabase(err) || errors.Is(err, ErrNoCollectionsTable) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDatabase, path, err)
		}
		return nil, err
	}
	return rows, nil
}

func isNotADatabase(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_NOTADB
	}
	return strings.Contains(err.Error(), "file is not a database")
}
