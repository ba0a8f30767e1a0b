// Package dbtest builds PocketBase-shaped SQLite files for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Row is one record of the _collections table. Schema is stored verbatim.
type Row struct {
	ID     string
	Type   string
	Name   string
	Schema string
}

// Sample is a small PocketBase schema with a system auth collection, a user
// auth collection and a collection relating to it.
var Sample = []Row{
	{"_pb_users_auth_", "auth", "_pb_users_auth_", `[]`},
	{"usr0000000001", "auth", "users", `[{"id":"u_name","name":"name","type":"text","required":false,"system":false,"presentable":true,"options":{"min":null,"max":null,"pattern":""}}]`},
	{"pst0000000001", "base", "posts", `[` +
		`{"id":"p_title","name":"title","type":"text","required":true,"system":false,"presentable":true,"options":{}},` +
		`{"id":"p_status","name":"status","type":"select","required":true,"system":false,"presentable":false,"options":{"maxSelect":1,"values":["draft","published"]}},` +
		`{"id":"p_author","name":"author","type":"relation","required":false,"system":false,"presentable":false,"options":{"collectionId":"usr0000000001","cascadeDelete":false,"maxSelect":1}},` +
		`{"id":"p_pub","name":"published","type":"date","required":false,"system":false,"presentable":false,"options":{}},` +
		`{"id":"p_views","name":"views","type":"number","required":false,"system":false,"presentable":false,"options":{}}` +
		`]`},
}

// Write creates a database at path holding rows in a _collections table.
func Write(t testing.TB, path string, rows []Row) {
	t.Helper()
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`CREATE TABLE _collections (
		id TEXT PRIMARY KEY NOT NULL,
		system BOOLEAN DEFAULT FALSE NOT NULL,
		type TEXT DEFAULT 'base' NOT NULL,
		name TEXT UNIQUE NOT NULL,
		schema JSON DEFAULT '[]' NOT NULL
	)`); err != nil {
		t.Fatalf("create _collections: %v", err)
	}
	insert(t, conn, rows)
}

// Insert adds rows to an existing database.
func Insert(t testing.TB, path string, rows []Row) {
	t.Helper()
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer conn.Close()
	insert(t, conn, rows)
}

func insert(t testing.TB, conn *sql.DB, rows []Row) {
	t.Helper()
	for _, r := range rows {
		if _, err := conn.Exec(`INSERT INTO _collections (id, type, name, schema) VALUES (?, ?, ?, ?)`,
			r.ID, r.Type, r.Name, r.Schema); err != nil {
			t.Fatalf("insert %s: %v", r.Name, err)
		}
	}
}

// WriteSample writes Sample to a new file in a temporary directory and
// returns its path.
func WriteSample(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	Write(t, path, Sample)
	return path
}
