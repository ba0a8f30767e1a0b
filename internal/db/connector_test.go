package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"pbextract/internal/schema"
)

var testdialect string = "testdialect"

type testExtractor struct{}

func (testExtractor) Extract(ctx context.Context, dbConn *sql.DB) ([]schema.RawCollection, error) {
	return nil, errors.New("not implemented")
}

func TestRegister(t *testing.T) {
	// tests both Register and RegisteredDialects because they take the same setup

	Register(testdialect, testExtractor{})

	if _, ok := dialects[testdialect]; !ok {
		t.Errorf("\ndialect %v not registered correctly in %v", testdialect, dialects)
	}

	rd := RegisteredDialects()

	if !(len(rd) == 1 && rd[0] == testdialect) {
		t.Errorf("\nRegisteredDialects returned unexpected result %v", rd)
	}
}

func TestConnectAndExtract(t *testing.T) {

	var tests = []struct {
		name          string
		dialect       string
		dsn           string
		timeout       int
		registerFirst bool
		errIsNil      bool
	}{
		{"unregistered dialect", "nosuchdialect", "", 10, false, false},
		{"sqlite with testExtractor", "sqlite", ":memory:", 10, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.registerFirst {
				Register(tt.dialect, testExtractor{})
			}

			_, err := ConnectAndExtract(context.Background(), tt.dialect, tt.dsn, tt.timeout)

			if (err == nil) != tt.errIsNil {
				if tt.errIsNil {
					t.Errorf("\ngot unexpected error: \"%v\"", err)
				} else {
					t.Errorf("\nexpected an error, did not receive one")
				}
			}
		})
	}
}

func TestQueryCollections(t *testing.T) {
	ctx := context.Background()
	dbConn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE t (id TEXT, type TEXT, name TEXT, schema TEXT)`,
		`INSERT INTO t VALUES ('a1', 'base', 'posts', '[{"name":"title","type":"text"}]')`,
		`INSERT INTO t VALUES ('b2', 'auth', 'users', NULL)`,
	}
	for _, s := range stmts {
		if _, err := dbConn.ExecContext(ctx, s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}

	got, err := QueryCollections(ctx, dbConn, `SELECT id, type, name, schema FROM t`)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if len(got) != 2 {
		t.Fatalf("\ngot %d rows, wanted 2", len(got))
	}
	if got[0].ID != "a1" || got[0].Type != "base" || got[0].Name != "posts" || string(got[0].Schema) != `[{"name":"title","type":"text"}]` {
		t.Errorf("\ngot unexpected first row %+v", got[0])
	}
	if got[1].Name != "users" || len(got[1].Schema) != 0 {
		t.Errorf("\ngot unexpected second row %+v", got[1])
	}

	if _, err := QueryCollections(ctx, dbConn, `SELECT id FROM missing`); err == nil {
		t.Errorf("\nexpected an error, did not receive one")
	}
}
