package configlibsql

import (
	"context"
	"database/sql"
	"fmt"
	devenv "golfboard/dev/env"
	"golfboard/pkg/migrations"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Struct points at a database, either a local sqlite file or a remote libsql
// (turso) database when Url is set.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) remoteURL() (string, error) {
	u, err := url.Parse(config.Url)
	if err != nil {
		return "", err
	}
	if config.AuthToken != "" {
		query := u.Query()
		query.Set("authToken", config.AuthToken)
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		dsn, err := config.remoteURL()
		if err != nil {
			return nil, err
		}
		return sql.Open("libsql", dsn)
	}

	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}
	return migrations.OpenDB(dbpath)
}

// OpenAndMigrate opens the database and applies schema to it.
func (config Struct) OpenAndMigrate(ctx context.Context, schema string) (*sql.DB, error) {
	db, err := config.OpenDB()
	if err != nil {
		return nil, err
	}
	err = migrations.Migrate(ctx, db, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
