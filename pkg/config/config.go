package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for admin credentials.
const (
	EnvUser     = "POCKETBASE_USER"
	EnvPassword = "POCKETBASE_PASSWORD"
)

const (
	DefaultURL    = "http://127.0.0.1:8090/"
	DefaultOutput = "pocketbase.d.ts"
)

// ErrMissingCredential is returned when no admin user or password is available.
var ErrMissingCredential = errors.New("Missing user or password")

type DBConfig struct {
	Type         string `yaml:"type" json:"type"`
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	DatabaseName string `yaml:"database_name" json:"database_name"`
	DSN          string `yaml:"dsn" json:"dsn"` // optional explicit DSN
}

// PocketBaseConfig locates the admin API of a running PocketBase server.
type PocketBaseConfig struct {
	URL      string `yaml:"url" json:"url"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
}

type OutputConfig struct {
	File          string `yaml:"file" json:"file"`
	JSON          string `yaml:"json" json:"json"`
	Module        string `yaml:"module" json:"module"`
	ExcludeSystem bool   `yaml:"exclude_system" json:"exclude_system"`
}

type AppConfig struct {
	PocketBase PocketBaseConfig `yaml:"pocketbase" json:"pocketbase"`
	Database   DBConfig         `yaml:"database" json:"database"`
	Output     OutputConfig     `yaml:"output" json:"output"`
}

// LoadFile loads YAML config from path.
func LoadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOptional loads path if it is set. A missing file is only an error
// when required is true.
func LoadOptional(path string, required bool) (AppConfig, error) {
	if path == "" {
		return AppConfig{}, nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return AppConfig{}, nil
		}
		return AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// NormalizeDriver maps common aliases to canonical keys (keeps backwards compat).
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "postgresql", "pg", "postgres":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "godror", "oracle":
		return "godror"
	default:
		return strings.ToLower(d)
	}
}

// BuildDriverAndDSN produces a driver name and DSN string for supported DB types.
func BuildDriverAndDSN(db DBConfig) (driver string, dsn string, err error) {
	// If explicit DSN provided, user must also set Type to choose driver or we guess
	t := NormalizeDriver(db.Type)

	if db.DSN != "" {
		return t, db.DSN, nil
	}

	switch t {
	case "postgres":
		driver = "postgres"
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "mysql":
		driver = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "sqlite":
		driver = "sqlite"
		if db.DatabaseName == "" {
			return "", "", fmt.Errorf("sqlite needs a file path in database_name")
		}
		// PocketBase keeps its database open in WAL mode; read-only is enough
		dsn, err = sqliteURI(db.DatabaseName)
	case "sqlserver":
		driver = "sqlserver"
		dsn = fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	case "godror":
		driver = "godror"
		dsn = fmt.Sprintf("%s/%s@%s:%d/%s",
			db.Username, db.Password, db.Host, db.Port, db.DatabaseName)
	default:
		err = fmt.Errorf("unsupported database type: %s", db.Type)
	}
	return
}

// sqliteURI returns a read-only file: URI for path. The path is made absolute
// and escaped so that '?', '#' and '%' in file names survive URI parsing.
func sqliteURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("sqlite path %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String(), nil
}

// Flag is a command-line value together with whether it was given.
type Flag struct {
	Value string
	Set   bool
}

// Credentials authenticate an admin against the PocketBase API.
type Credentials struct {
	User     string
	Password string
}

// ResolveCredentials picks each credential from the flag when it was given
// (even if empty), else the environment, else the config file. An empty
// result fails with ErrMissingCredential.
func ResolveCredentials(user, password Flag, file PocketBaseConfig, lookupEnv func(string) (string, bool)) (Credentials, error) {
	c := Credentials{
		User:     resolve(user, EnvUser, file.User, lookupEnv),
		Password: resolve(password, EnvPassword, file.Password, lookupEnv),
	}
	switch {
	case c.User == "":
		return Credentials{}, fmt.Errorf("%w: user", ErrMissingCredential)
	case c.Password == "":
		return Credentials{}, fmt.Errorf("%w: password", ErrMissingCredential)
	}
	return c, nil
}

func resolve(f Flag, env, fallback string, lookupEnv func(string) (string, bool)) string {
	if f.Set {
		return f.Value
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv(env); ok && v != "" {
			return v
		}
	}
	return fallback
}
